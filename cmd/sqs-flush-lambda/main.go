package main

import (
	"context"

	"sqs-flush/configs"
	"sqs-flush/internal/application/handler"
	"sqs-flush/internal/application/runner"
	"sqs-flush/pkg/log"
	"sqs-flush/pkg/msg"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("%s: %v", msg.GetMessage("command.config-failed"), err)
	}
	log.Configure(cfg.ApplicationName, cfg.LogLevel)

	// clients are built once per cold start and live as long as the
	// execution environment; lambda.Start never returns, so the redis
	// connection is not closed explicitly
	drainRunner, _, err := runner.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("%s: %v", msg.GetMessage("command.init-failed"), err)
	}

	lambda.Start(handler.NewFlushHandler(drainRunner).Handle)
}
