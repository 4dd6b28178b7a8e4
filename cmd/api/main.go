package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"botanicaltour/internal/config"
	"botanicaltour/internal/database"
	"botanicaltour/internal/middleware"
	"botanicaltour/internal/modules/catalog"
	"botanicaltour/internal/modules/review"
	"botanicaltour/internal/pkg/contentfilter"
	jwtsvc "botanicaltour/internal/pkg/jwt"
	"botanicaltour/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatal(err)
	}

	hub := review.NewHub()
	defer hub.Close()

	if isRelease(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, store, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server_started addr=%s env=%s", srv.Addr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server_shutdown_failed error=%v", err)
	}
	log.Println("server_stopped")
}

func newRouter(cfg *config.Config, store review.Storage, hub *review.Hub) *gin.Engine {
	filter := contentfilter.Default()
	if len(cfg.BannedWords) > 0 {
		filter = contentfilter.New(cfg.BannedWords)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.AdminTokenTTL)

	catalogService := catalog.NewService()
	catalogHandler := catalog.NewHandler(catalogService)

	reviewService := review.NewService(store, review.Policy{
		SubmitCooldown:     cfg.SubmitCooldown,
		DeleteWindow:       cfg.DeleteWindow,
		MaxDeletionsPerDay: cfg.MaxDeletionsPerDay,
		Location:           cfg.Timezone,
	})
	reviewHandler := review.NewHandler(reviewService, filter, catalogService, hub)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		catalogHandler.RegisterRoutes(v1)

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())

		reviewHandler.RegisterRoutes(v1, admin)
	}

	return r
}

func openStorage(cfg *config.Config) (review.Storage, error) {
	if cfg.StorageDriver == "memory" {
		log.Println("Using in-memory review storage; data is lost on restart")
		return repository.NewMemoryKV(), nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&repository.KVEntry{}); err != nil {
		return nil, err
	}
	return repository.NewKVRepository(db), nil
}

func isRelease(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}
