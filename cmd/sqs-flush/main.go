package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sqs-flush/configs"
	"sqs-flush/internal/application/runner"
	"sqs-flush/pkg/log"
	"sqs-flush/pkg/msg"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	// local development only; deployed environments set variables directly
	_ = godotenv.Load(".env")

	cfg, err := configs.Load()
	if err != nil {
		log.Errorw(msg.GetMessage("command.config-failed"), "error", err)
		log.Sync()
		return 2
	}
	log.Configure(cfg.ApplicationName, cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drainRunner, closeFn, err := runner.Build(ctx, cfg)
	if err != nil {
		log.Errorw(msg.GetMessage("command.init-failed"), "error", err)
		return 1
	}
	defer closeFn()

	report, err := drainRunner.Run(ctx)
	if err != nil {
		return 1
	}

	output, err := json.Marshal(report)
	if err != nil {
		log.Errorw(msg.GetMessage("command.report-encode-failed"), "error", err)
		return 1
	}
	fmt.Println(string(output))
	return 0
}
