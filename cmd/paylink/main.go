// cmd/paylink/main.go
// Seller command line
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"paylink/internal/cli"
	"paylink/shared/pkg/logger"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	level := os.Getenv("PAYLINK_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	log, err := logger.New("paylink-cli", os.Getenv("APP_ENV"), level)
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, log); err != nil {
		fmt.Fprintln(os.Stderr, "Errore:", err)
		os.Exit(1)
	}
}
