package storage

import (
	"context"
	"os"
	"testing"
)

func TestRedisKV(t *testing.T) {
	url := os.Getenv("CHOREBOOK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CHOREBOOK_TEST_REDIS_URL not set")
	}
	kv, err := NewRedisKV(context.Background(), url, "chorebook-test")
	if err != nil {
		t.Fatalf("NewRedisKV() error = %v", err)
	}
	defer func() { _ = kv.Close() }()
	testKVStore(t, kv)
}

func TestNewRedisKV_BadURL(t *testing.T) {
	if _, err := NewRedisKV(context.Background(), "not-a-url", ""); err == nil {
		t.Error("NewRedisKV() expected error for malformed url")
	}
}
