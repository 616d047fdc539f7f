package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"algocom-api/config"
	"algocom-api/fetcher"
	"algocom-api/metrics"
	"algocom-api/router"
	"algocom-api/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	metrics.Init("algocom-api", "1.0", "production")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}
	defer client.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Fatal("MongoDB ping failed:", err)
	}

	db := client.Database(cfg.MongoDatabase)

	f := fetcher.NewFetcher(cfg, db)
	f.EnsureIndexes(ctx)

	w := worker.NewWorker(cfg, f)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[ERROR] Worker stopped: %v", err)
		}
	}()

	r := router.Setup(cfg, db, f, w.Enqueue)

	log.Printf("algocom-api running at :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
