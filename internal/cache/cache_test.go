//go:build unit

package cache

import (
	"context"
	"testing"
	"time"

	"studio-site/internal/config"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(config.CacheConfig{FilePath: ":memory:", TTL: time.Minute})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "site:home", []byte("hello"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "site:home")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("want 'hello'; got %q", got)
	}

	miss, err := c.Get(ctx, "site:missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if miss != nil {
		t.Errorf("want nil on miss; got %q", miss)
	}
}

func TestCache_Expired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "blog:list", []byte("stale"), -time.Hour); err != nil {
		t.Fatal(err)
	}
	// A negative ttl falls back to the default, so write an expired row directly.
	if _, err := c.db.Exec(`UPDATE cache SET expires_at = ? WHERE key = ?`, time.Now().Add(-time.Hour).Unix(), "blog:list"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(ctx, "blog:list")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected expired entry to be a miss, got %q", got)
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"blog:list:1", "blog:post:hello", "site:home", "blog_other"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.DeletePrefix(ctx, "blog:"); err != nil {
		t.Fatalf("DeletePrefix failed: %v", err)
	}

	for key, wantHit := range map[string]bool{
		"blog:list:1":     false,
		"blog:post:hello": false,
		"site:home":       true,
		"blog_other":      true,
	} {
		got, err := c.Get(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if (got != nil) != wantHit {
			t.Errorf("key %q: want hit=%v; got %q", key, wantHit, got)
		}
	}
}
