//go:build integration

// Package testutil starts the backing services used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"net"
	"path/filepath"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Container is a running service with its connection string.
type Container struct {
	Container testcontainers.Container
	URI       string
}

// Cleanup terminates the container.
func (c *Container) Cleanup(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}
	return c.Container.Terminate(ctx)
}

// SetupMongoDB starts a MongoDB container.
func SetupMongoDB(ctx context.Context) (*Container, error) {
	mongoContainer, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		_ = mongoContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get MongoDB connection string: %w", err)
	}
	return &Container{Container: mongoContainer, URI: uri}, nil
}

// SetupRedis starts a Redis container. URI is a redis:// URL.
func SetupRedis(ctx context.Context) (*Container, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	uri, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		_ = redisContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get Redis connection string: %w", err)
	}
	return &Container{Container: redisContainer, URI: uri}, nil
}

// EmbeddedPostgres is a local PostgreSQL process.
type EmbeddedPostgres struct {
	db  *embeddedpostgres.EmbeddedPostgres
	DSN string
}

// SetupEmbeddedPostgres starts PostgreSQL on a free port with its data under dir.
func SetupEmbeddedPostgres(dir string) (*EmbeddedPostgres, error) {
	port, err := freePort()
	if err != nil {
		return nil, err
	}

	cfg := embeddedpostgres.DefaultConfig().
		Port(uint32(port)).
		Database("packing_lists").
		Username("postgres").
		Password("postgres").
		RuntimePath(filepath.Join(dir, "runtime")).
		DataPath(filepath.Join(dir, "data"))

	db := embeddedpostgres.NewDatabase(cfg)
	if err := db.Start(); err != nil {
		return nil, fmt.Errorf("failed to start embedded PostgreSQL: %w", err)
	}

	return &EmbeddedPostgres{
		db:  db,
		DSN: fmt.Sprintf("host=localhost port=%d user=postgres password=postgres dbname=packing_lists sslmode=disable", port),
	}, nil
}

// Cleanup stops the PostgreSQL process.
func (p *EmbeddedPostgres) Cleanup() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Stop()
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("find free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
