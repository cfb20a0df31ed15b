package main

import (
	"context"
	"fxconverter/internal/app"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

var version = "dev"

// @title fxconverter API
// @version 1.0
// @description Currency conversion sessions backed by ExchangeRate-API rates.
// @BasePath /api/v1
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("fxconverter failed")
		stop()
		os.Exit(1)
	}
}
