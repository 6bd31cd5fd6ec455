package config

// Redis backs the catalog response cache and the request rate limiter.
// Connection parameters come from the environment; when the server cannot
// be reached at startup the constructor returns nil and both features are
// disabled, so the booking core keeps working without Redis.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from environment variables:
//   REDIS_ADDR - host:port of the Redis server (default "localhost:6379")
//   REDIS_HOST / REDIS_PORT - alternative to REDIS_ADDR, takes precedence
//   REDIS_PASSWORD - optional password
//   REDIS_DB - database number (default 0)
//   REDIS_TLS - enable TLS when "true" or "1"
// It pings the server with a short timeout and returns nil on any failure.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	dbNum, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); v == "1" || strings.EqualFold(v, "true") {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
