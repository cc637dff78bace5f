package entity

// ArchiveObject is the immutable blob written to the bucket for one message
type ArchiveObject struct {
	Key         string
	Body        []byte
	ContentType string
}
