package models

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"

	"github.com/promptart/backend/internal/config"
)

// InitFirestore initializes the Firestore client. Credentials come from the
// environment (GOOGLE_APPLICATION_CREDENTIALS or ambient service account).
func InitFirestore(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	if cfg.GoogleCloudProject == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is not set")
	}

	client, err := firestore.NewClient(ctx, cfg.GoogleCloudProject)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to firestore: %w", err)
	}

	log.Println("Firestore connection established")
	return client, nil
}

// InitRedis initializes Redis connection
func InitRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	log.Println("Redis connection established")
	return client
}
