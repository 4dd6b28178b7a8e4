package main

import (
	"context"
	"log"

	"botanicaltour/internal/config"
	"botanicaltour/internal/database"
	"botanicaltour/internal/modules/review"
	"botanicaltour/internal/repository"
)

// reset erases all reviews, the submission cooldown and the deletion ledger.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.StorageDriver != "sql" {
		log.Fatal("reset requires STORAGE_DRIVER=sql")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := db.AutoMigrate(&repository.KVEntry{}); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	svc := review.NewService(repository.NewKVRepository(db), review.DefaultPolicy())
	if err := svc.ClearAll(context.Background()); err != nil {
		log.Fatalf("reset failed: %v", err)
	}

	log.Printf("review reset completed: database=%s", cfg.DatabaseURL)
}
