package main

import (
	"os"

	"go.uber.org/fx"

	"movie-catalog-backend/internal/app"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	fx.New(app.CreateApp(app.ConfigPath(configPath))).Run()
}
