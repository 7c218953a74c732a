package main

import (
	"log"

	"academy-ai/internal/config"
	"academy-ai/internal/database"
	"academy-ai/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	db, err := database.NewSQLXDB(cfg.Database.DSN)
	if err != nil {
		l.Fatal("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		l.Fatal("Failed to run migrations: " + err.Error())
	}
	l.Info("Migrations applied")
}
