package main

import (
	"context"
	"os"
	"strconv"

	"salesapi/cmd/salesapi/cmds"
	"salesapi/internal/api"
	"salesapi/internal/backends"
	"salesapi/internal/flow"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("The .env file not found.")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	port := 8000
	if p := os.Getenv("PORT"); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			log.Fatalf("Invalid PORT %q: %v", p, err)
		}
	}

	ctx := context.Background()

	stores, err := backends.StoresFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}

	publisher, topic, err := backends.PublisherFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize publisher: %v", err)
	}

	if seed := os.Getenv("SEED_FILE"); seed != "" {
		if err := cmds.Seed(ctx, stores, seed); err != nil {
			log.Fatalf("Failed to seed stores: %v", err)
		}
	}

	registrar := flow.NewRegistrar(stores, publisher, topic)
	api.RunServer(port, api.NewHandler(stores, registrar))
}
