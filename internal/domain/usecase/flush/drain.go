package flush

// drain runs step for iterations 1..budget and stops early on the first
// iteration that handles nothing. Counts returned by step are summed, including
// the count of a failing iteration.
func drain(budget int, step func(iteration int) (int, error)) (iterations int, total int, exhausted bool, err error) {
	for iterations < budget {
		iterations++

		n, err := step(iterations)
		total += n
		if err != nil {
			return iterations, total, false, err
		}
		if n == 0 {
			return iterations, total, false, nil
		}
	}

	return iterations, total, true, nil
}
