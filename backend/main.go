package main

import (
	"log"

	"github.com/philosofium/coursecontent/backend/config"
	"github.com/philosofium/coursecontent/backend/routes"
	"github.com/philosofium/coursecontent/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(utils.LoggerConfig{Format: cfg.LogFormat, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Error("Error initializing database", "error", err)
		return
	}

	app := routes.NewApp(db, cfg, logger)

	// Start server
	logger.Info("listening", "port", cfg.ServerPort, "db", cfg.DBDriver)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
