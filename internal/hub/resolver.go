// Package hub specifies the local-disk half of the HuggingFace-style
// artifact fetcher the tokenizer spec places out of scope: given
// (repo, revision, filename), resolve a local file path. The network
// download half (HTTP fetch into the cache) is an external
// collaborator and is not implemented here.
package hub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileResolver resolves (repo, revision, filename) to a local path.
// Implementations may perform network I/O and may block; the core
// tokenizer package never depends on this interface directly, only the
// CLI and artifact-loading glue do.
type FileResolver interface {
	Resolve(ctx context.Context, repo, revision, filename string) (path string, err error)
}

// ErrCacheMiss is returned by LocalCacheResolver when the requested
// file isn't present under the cache directory. It is a typed error
// (match it with a type assertion), not a fetch failure: resolving it requires populating the
// cache out of band (e.g. by a prior `huggingface-cli download`, or a
// network-capable FileResolver this package doesn't provide).
type ErrCacheMiss struct {
	Repo, Revision, Filename string
	Path                     string
}

func (e *ErrCacheMiss) Error() string {
	return fmt.Sprintf("%s@%s/%s not found in local cache (expected at %s)", e.Repo, e.Revision, e.Filename, e.Path)
}

// LocalCacheResolver resolves files against a pre-populated on-disk
// cache directory laid out the way huggingface_hub's snapshot cache
// would: <CacheDir>/<repo>/<revision>/<filename>. It performs no
// network I/O.
type LocalCacheResolver struct {
	CacheDir string
}

// Resolve returns the local path for (repo, revision, filename) if it
// exists under CacheDir, otherwise an *ErrCacheMiss.
func (r *LocalCacheResolver) Resolve(ctx context.Context, repo, revision, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(r.CacheDir, repo, revision, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", &ErrCacheMiss{Repo: repo, Revision: revision, Filename: filename, Path: path}
		}
		return "", err
	}
	return path, nil
}
