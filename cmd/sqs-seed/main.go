package main

import (
	"fmt"
	"os"

	"sqs-flush/configs"
	"sqs-flush/internal/infra/aws"
	"sqs-flush/pkg/log"
	"sqs-flush/pkg/msg"
	sqslib "sqs-flush/pkg/sqs"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sqs-seed",
		Usage: "Enqueue notification envelopes to exercise a drain pass",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "queue-url",
				Usage:    "AWS SQS queue URL",
				Required: true,
				EnvVars:  []string{"QUEUE_URL", "queue_url"},
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of messages to send",
				Value: 25,
			},
			&cli.StringFlag{
				Name:  "payload",
				Usage: "Payload template, %d is replaced by the message number",
				Value: `{"level":"info","msg":"seed message %d"}`,
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region",
				EnvVars: []string{"AWS_REGION"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Custom AWS endpoint, e.g. LocalStack",
				EnvVars: []string{"AWS_ENDPOINT"},
			},
		},
		Action: seed,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func seed(c *cli.Context) error {
	if c.Int("count") < 1 {
		return fmt.Errorf("count must be positive")
	}

	awsCfg, err := aws.LoadConfig(c.Context, configs.AWSConfig{
		Region:   c.String("region"),
		Endpoint: c.String("endpoint"),
	})
	if err != nil {
		return err
	}

	messages := make([]sqslib.BatchMessage, 0, c.Int("count"))
	for i := 1; i <= c.Int("count"); i++ {
		messages = append(messages, sqslib.BatchMessage{
			MessageID: fmt.Sprintf("seed-%d", i),
			Body: map[string]string{
				"Type":      "Notification",
				"MessageId": uuid.NewString(),
				"Message":   fmt.Sprintf(c.String("payload"), i),
			},
		})
	}

	sender := sqslib.NewSender(aws.NewSqsClient(awsCfg), c.String("queue-url"))
	result, err := sender.SendMessageBatch(c.Context, messages)
	if err != nil {
		return err
	}

	log.Info(msg.GetMessage("seed.sent", len(result.Successful), c.String("queue-url")))
	if len(result.Failed) > 0 {
		return fmt.Errorf("%s", msg.GetMessage("seed.failed", len(result.Failed)))
	}
	return nil
}
