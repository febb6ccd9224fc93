package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qrdine/qrdine-backend/pkg/config"
)

func configFor(url string) config.RedisConfig {
	return config.RedisConfig{URL: url}
}

type fakeStore struct {
	setNXKeys map[string]bool
	delKeys   []string
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Get(context.Context, string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) *redis.BoolCmd {
	if f.setNXKeys == nil {
		f.setNXKeys = map[string]bool{}
	}
	taken := f.setNXKeys[key]
	f.setNXKeys[key] = true
	return redis.NewBoolResult(!taken, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.delKeys = append(f.delKeys, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestIdempotencyKeyNamespacing(t *testing.T) {
	c := &Client{store: &fakeStore{}}
	key := c.IdempotencyKey("orders", "abc")
	if key != "qd:idempotency:orders:abc" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	c := &Client{store: &fakeStore{}}
	if got := c.IdempotencyKey("", "abc"); got != "qd:idempotency:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestSetNXSecondCallerLoses(t *testing.T) {
	c := &Client{store: &fakeStore{}}
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "qd:lock:order-expiry", "1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first set to win, ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "qd:lock:order-expiry", "1", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected second set to lose")
	}
}

func TestDelRemovesKeys(t *testing.T) {
	store := &fakeStore{}
	c := &Client{store: store}
	if err := c.Del(context.Background(), "qd:lock:order-expiry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.delKeys) != 1 || store.delKeys[0] != "qd:lock:order-expiry" {
		t.Fatalf("unexpected deleted keys %v", store.delKeys)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(configFor("")); err == nil {
		t.Fatal("expected error for empty config")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(configFor("redis://localhost:6379/2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
}
