package cache

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campsite-api/internal/config"
	"github.com/vietanh2810/campsite-api/internal/domain"
)

var testClient *redis.Client

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, skipping redis tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start redis: %v", err)
	}
	_ = resource.Expire(120)

	conf := &config.RedisConfig{Addr: resource.GetHostPort("6379/tcp")}
	pool.MaxWait = 60 * time.Second
	if err = pool.Retry(func() error {
		client, err := NewRedisClient(context.Background(), conf)
		if err != nil {
			return err
		}
		testClient = client

		return nil
	}); err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}

	code := m.Run()

	_ = testClient.Close()
	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge redis: %v", err)
	}
	os.Exit(code)
}

func setupCache(t *testing.T, ttl time.Duration) *CalendarCache {
	t.Helper()
	if testClient == nil {
		t.Skip("redis not available")
	}
	require.NoError(t, testClient.FlushDB(context.Background()).Err())

	return NewCalendarCache(testClient, ttl)
}

func TestCalendarCache(t *testing.T) {
	c := setupCache(t, time.Minute)
	ctx := context.Background()
	key := "calendar:2024-03:2024-03-01"

	days, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, days)

	want := []domain.CalendarDay{{Date: "2024-03-01", Available: true}, {Date: "2024-03-02", Available: false}}
	require.NoError(t, c.Set(ctx, key, want))

	days, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, days)

	ttl, err := testClient.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, c.Delete(ctx, key, "calendar:2024-04:2024-03-01"))
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx))
}

func TestCalendarCache_DeletePrefix(t *testing.T) {
	c := setupCache(t, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 150; i++ {
		key := fmt.Sprintf("calendar:2024-%02d:2024-03-01:%d", i%12+1, i)
		require.NoError(t, c.Set(ctx, key, []domain.CalendarDay{{Date: "2024-03-01"}}))
	}
	require.NoError(t, testClient.Set(ctx, "session:1", "keep", time.Minute).Err())

	require.NoError(t, c.DeletePrefix(ctx, "calendar:"))

	left, err := testClient.Keys(ctx, "calendar:*").Result()
	require.NoError(t, err)
	assert.Empty(t, left)
	kept, err := testClient.Get(ctx, "session:1").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep", kept)
}

func TestCalendarCache_Corrupt(t *testing.T) {
	c := setupCache(t, 0)
	ctx := context.Background()

	require.NoError(t, testClient.Set(ctx, "calendar:bad", "not json", time.Minute).Err())
	_, ok, err := c.Get(ctx, "calendar:bad")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, defaultTTL, c.ttl)
}
