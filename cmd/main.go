package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/devandref/payment-service/config"
	"github.com/devandref/payment-service/internal/app"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		fmt.Println("Error reading config file", err)
		os.Exit(1)
	}
	if err := cfg.APP.ConfigureLogging(); err != nil {
		fmt.Println("Error configuring logger", err)
		os.Exit(1)
	}

	myApp := &app.App{}
	if err := myApp.Initialize(cfg); err != nil {
		logrus.WithError(err).Fatal("Error initializing payment service")
	}
	if err := myApp.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("Payment service stopped with error")
	}
}
