package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

// Redis backs the refresh-token allowlist. The same client is handed back to
// main so the login limiter gets an explicitly injected handle and the
// connection is closed on shutdown.
var Redis *redis.Client

func InitializeRedis() *redis.Client {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	log.Println("Redis initialized with address:", redisURL)
	return Redis
}
