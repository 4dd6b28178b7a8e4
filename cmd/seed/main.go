package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"botanicaltour/internal/config"
	"botanicaltour/internal/database"
	"botanicaltour/internal/domain"
	"botanicaltour/internal/modules/catalog"
	"botanicaltour/internal/modules/review"
	"botanicaltour/internal/pkg/contentfilter"
	"botanicaltour/internal/repository"

	"github.com/google/uuid"
)

var sampleComments = []string{
	"Дуже гарно, обов'язково повернемося",
	"Чудове місце для прогулянки з дітьми",
	"Багато цікавих рослин, але мало лавок",
	"Найкраще приходити навесні",
	"Гарні доріжки та доглянуті клумби",
}

// seed writes demo reviews straight into the reviews document for local
// development. It leaves the cooldown and the deletion ledger untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&repository.KVEntry{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	filter := contentfilter.Default()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	reviews := domain.ReviewCollection{}
	for _, loc := range catalog.NewService().List() {
		count := 1 + rng.Intn(4)
		for i := 0; i < count; i++ {
			comment := sampleComments[rng.Intn(len(sampleComments))]
			if filter.IsForbidden(comment) {
				log.Fatalf("sample comment rejected by content filter: %q", comment)
			}
			reviews[loc.ID] = append(reviews[loc.ID], domain.Review{
				ID:         uuid.NewString(),
				LocationID: loc.ID,
				Rating:     3 + rng.Intn(3),
				Comment:    comment,
				CreatedAt:  now.Add(-time.Duration(2+rng.Intn(60)) * 24 * time.Hour).UnixMilli(),
			})
		}
	}

	data, err := json.Marshal(reviews)
	if err != nil {
		log.Fatal(err)
	}

	kv := repository.NewKVRepository(db)
	if err := kv.Set(context.Background(), review.ReviewsKey, string(data)); err != nil {
		log.Fatal("write reviews failed:", err)
	}

	total := 0
	for _, items := range reviews {
		total += len(items)
	}
	log.Printf("Seed completed: %d reviews across %d locations", total, len(reviews))
}
