package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := NewMockCmdable()
	client := NewFromCmdable(mock)

	if err := client.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.TTLs["k"] != time.Minute {
		t.Fatalf("expected ttl to be forwarded, got %v", mock.TTLs["k"])
	}
	got, err := client.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("unexpected get result %q err=%v", got, err)
	}
	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "k"); err != ErrNil {
		t.Fatalf("expected ErrNil after delete, got %v", err)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op, got %v", err)
	}
}

func TestCartStateKey(t *testing.T) {
	client := &Client{}
	if got := client.CartStateKey("sess-1:ecom-cart"); got != "sf:cart:sess-1:ecom-cart" {
		t.Fatalf("unexpected cart key %s", got)
	}
	if got := client.CartStateKey(" "); got != "sf:cart" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/3", PoolSize: 7, ReadTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 3 {
		t.Fatalf("unexpected parsed options addr=%s db=%d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 7 || opts.ReadTimeout != time.Second {
		t.Fatalf("expected config fallbacks to apply, got pool=%d read=%v", opts.PoolSize, opts.ReadTimeout)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Fatalf("unexpected address options %+v", opts)
	}
}

func TestMockCmdableFailures(t *testing.T) {
	mock := NewMockCmdable()
	mock.SetErr = fmt.Errorf("OOM command not allowed")
	client := NewFromCmdable(mock)
	if err := client.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected injected set error")
	}
	if _, ok := mock.Data["k"]; ok {
		t.Fatal("failed set should not store data")
	}
}
