package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigBadURL(t *testing.T) {
	_, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	if err == nil {
		t.Fatalf("expected parse error for malformed URL")
	}
}

func TestNewPoolWithConfigUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cfg := PoolConfig{
		DatabaseURL: "postgres://nobody@127.0.0.1:1/truckparts?sslmode=disable",
		MaxConns:    1,
	}

	if _, err := NewPoolWithConfig(ctx, cfg); err == nil {
		t.Fatalf("expected ping failure against unreachable server")
	}
}
