package main

import (
	"context"
	"log"

	"github.com/taskvault/taskvault/internal/app"
	"github.com/taskvault/taskvault/internal/config"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.NewBuilder(cfg, version).Build(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
