package main

import (
	"context"
	"log"

	"goexplain/internal/config"
	"goexplain/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Start the JSON API
	log.Printf("🚀 Starting GoExplain API on port %s", appConfig.Server.APIPort)
	log.Fatal(appContainer.API.Start())
}
