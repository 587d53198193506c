package redis

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// LinkUsageKey is the counter bumped on every booking made through a link.
// The DB column is refreshed from it best-effort; the counter is the source
// of truth for "how many times was this link used".
func LinkUsageKey(token string) string {
	return fmt.Sprintf("booking_link:usage:%s", token)
}
