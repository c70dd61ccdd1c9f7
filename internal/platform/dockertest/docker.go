// Package dockertest starts throwaway Postgres and Redis containers for
// integration tests. Tests are skipped when no Docker daemon is reachable.
package dockertest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/storetis/internal/platform/db"
	cfgpkg "github.com/fatflowers/storetis/pkg/config"
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

func GetDockerHost() string {
	return getEnv("DOCKERTEST_HOST", "localhost")
}

func newPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = 2 * time.Minute
	return pool
}

// StartupPostgres runs postgres, migrates every model and returns the handle.
func StartupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)

	pool := newPool(t)
	resource, err := pool.Run("postgres", "16-alpine", []string{"POSTGRES_PASSWORD=postgres", "POSTGRES_DB=storetis"})
	require.NoError(err, "start postgres")
	t.Cleanup(func() {
		require.NoError(pool.Purge(resource), "purge resource %s", resource.Container.Name)
	})

	cfg := cfgpkg.DBConfig{
		Driver:         cfgpkg.DBDriverPostgres,
		DSN:            fmt.Sprintf("postgres://postgres:postgres@%s:%s/storetis?sslmode=disable", GetDockerHost(), resource.GetPort("5432/tcp")),
		ConnectTimeout: time.Minute,
	}
	log := zap.NewNop().Sugar()
	orm, err := db.Open(context.Background(), log, cfg, false)
	require.NoError(err, "wait for postgres connection")
	require.NoError(db.AutoMigrate(log, orm), "migrate")
	return orm
}

// StartupRedis runs redis and returns a connected client.
func StartupRedis(t *testing.T) *redis.Client {
	t.Helper()
	require := require.New(t)

	pool := newPool(t)
	resource, err := pool.Run("redis", "7-alpine", nil)
	require.NoError(err, "start redis")
	t.Cleanup(func() {
		require.NoError(pool.Purge(resource), "purge resource %s", resource.Container.Name)
	})

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", GetDockerHost(), resource.GetPort("6379/tcp"))})
	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	err = pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	})
	require.NoError(err, "wait for redis connection")
	t.Cleanup(func() { _ = client.Close() })
	return client
}
