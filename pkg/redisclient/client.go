// Package redisclient wraps a single *redis.Client the way the teacher's
// pkg/redis package does, generalized to accept the client explicitly in
// higher layers instead of only exposing package-level globals.
package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// New parses url (redis://...) and pings it once during startup so
// misconfiguration fails fast, matching the teacher's Init shape.
func New(url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
