package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/certsync/app/certsync"
	"github.com/dmitrymomot/certsync/core/logger"
)

func main() {
	daemonMode := flag.Bool("daemon", false, "run continuously, checking certificates once a day")
	flag.Parse()

	app, err := certsync.NewApp()
	if err != nil {
		logger.New().Error("startup failed", logger.Error(err))
		os.Exit(1)
	}
	log := app.Logger()
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *daemonMode {
		if err := app.Daemon(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("daemon stopped", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	if _, err := app.Once(ctx); err != nil {
		log.Error("certificate pass failed", logger.Error(err))
		os.Exit(1)
	}
}
