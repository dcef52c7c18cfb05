package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestResponseCache_SetAndGet(t *testing.T) {
	client, _ := newTestRedis(t)
	cache := NewResponseCache(client, "brgy:cache")

	ctx := context.Background()
	payload := []byte(`{"items":[{"title":"Libreng tuli"}]}`)

	if err := cache.Set(ctx, "/api/v1/announcements?page=1", payload, time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, ok, err := cache.Get(ctx, "/api/v1/announcements?page=1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected payload %s, got %s", payload, got)
	}
}

func TestResponseCache_GetMiss(t *testing.T) {
	client, _ := newTestRedis(t)
	cache := NewResponseCache(client, "brgy:cache")

	got, ok, err := cache.Get(context.Background(), "/api/v1/events")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
	if got != nil {
		t.Fatalf("expected nil payload on miss, got %s", got)
	}
}

func TestResponseCache_ExpiredEntryMisses(t *testing.T) {
	client, server := newTestRedis(t)
	cache := NewResponseCache(client, "brgy:cache")

	ctx := context.Background()
	if err := cache.Set(ctx, "/api/v1/events", []byte(`{"items":[]}`), time.Second); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	server.FastForward(2 * time.Second)

	_, ok, err := cache.Get(ctx, "/api/v1/events")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestResponseCache_DefaultPrefix(t *testing.T) {
	client, server := newTestRedis(t)
	cache := NewResponseCache(client, "")

	if err := cache.Set(context.Background(), "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	if !server.Exists("cache:key") {
		t.Fatalf("expected key under default prefix")
	}
}
