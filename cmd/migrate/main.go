package main

import (
	"errors"
	"flag"
	"log"

	"partnerz-backend/config"
	"partnerz-backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "up or down")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = migrate.Run(cfg.DBUrl, *direction)
	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("Database already up to date")
		return
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migrations applied (%s)", *direction)
}
