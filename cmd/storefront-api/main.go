package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aq2208/gorder-storefront/cmd/storefront-api/app"
	"github.com/aq2208/gorder-storefront/configs"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
