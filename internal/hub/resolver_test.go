package hub

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalCacheResolverHit(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "repo", "rev", "tiktoken.model")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := &LocalCacheResolver{CacheDir: dir}
	path, err := r.Resolve(context.Background(), "repo", "rev", "tiktoken.model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != target {
		t.Fatalf("got %q, want %q", path, target)
	}
}

func TestLocalCacheResolverMiss(t *testing.T) {
	dir := t.TempDir()
	r := &LocalCacheResolver{CacheDir: dir}
	_, err := r.Resolve(context.Background(), "repo", "rev", "tiktoken.model")
	if _, ok := err.(*ErrCacheMiss); !ok {
		t.Fatalf("got %T, want *ErrCacheMiss", err)
	}
}

func TestLocalCacheResolverCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &LocalCacheResolver{CacheDir: t.TempDir()}
	_, err := r.Resolve(ctx, "repo", "rev", "tiktoken.model")
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
