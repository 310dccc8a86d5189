package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/wfh-scheduler-web/internal"
	"github.com/syrilster/wfh-scheduler-web/internal/config"
)

func main() {
	// load values from .env into the system
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found")
	}

	cfg, err := config.NewApplicationConfig()
	if err != nil {
		log.Fatalf("failed to start application: %v", err)
	}
	server, err := internal.SetupServer(cfg)
	if err != nil {
		log.Fatalf("failed to set up server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.Start(ctx, "", cfg.ServerPort()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
