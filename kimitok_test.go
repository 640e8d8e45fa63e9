package kimitok

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moonshotai/kimi-tokenizer/internal/hub"
)

func writeFixtureModel(t *testing.T, dir string) {
	t.Helper()
	content := "SGU= 0\nbGw= 1\nbGxv 2\nSA== 10\nZQ== 11\nbA== 12\nbw== 13\n"
	if err := os.WriteFile(filepath.Join(dir, "tiktoken.model"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture model: %v", err)
	}
}

func TestLoadRepoResolvesThroughCacheLayout(t *testing.T) {
	cacheDir := t.TempDir()
	repoDir := filepath.Join(cacheDir, "moonshotai/kimi-k2", "main")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFixtureModel(t, repoDir)

	enc, err := LoadRepo(cacheDir, "moonshotai/kimi-k2", "main", "", Parity)
	if err != nil {
		t.Fatalf("LoadRepo() error: %v", err)
	}

	ids, err := enc.Encode([]byte("Hello"), true)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 2 {
		t.Fatalf("got %v, want [0 2]", ids)
	}
}

func TestLoadRepoDefaultsRevisionToMain(t *testing.T) {
	cacheDir := t.TempDir()
	repoDir := filepath.Join(cacheDir, "moonshotai/kimi-k2", "main")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFixtureModel(t, repoDir)

	if _, err := LoadRepo(cacheDir, "moonshotai/kimi-k2", "", "", Parity); err != nil {
		t.Fatalf("LoadRepo() with empty revision error: %v", err)
	}
}

func TestLoadRepoMissingModelIsCacheMiss(t *testing.T) {
	cacheDir := t.TempDir()
	_, err := LoadRepo(cacheDir, "nonexistent/repo", "main", "", Parity)
	if err == nil {
		t.Fatal("expected an error for a repo/revision missing from the cache")
	}
	if _, ok := err.(*hub.ErrCacheMiss); !ok {
		t.Fatalf("got %T, want *hub.ErrCacheMiss", err)
	}
}
