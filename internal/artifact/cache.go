package artifact

import "sync"

// EncodingKey identifies a built encoding by its construction
// parameters: the resolver root, repo, revision, pattern source, and
// matching policy together determine whether two requests can share
// one built Encoding. CacheRoot distinguishes two resolvers that would
// otherwise report the same repo/revision pair (e.g. two separate
// --cache-dir roots, or a --tokenizer-dir used directly as the root).
type EncodingKey struct {
	CacheRoot string
	Repo      string
	Revision  string
	PatStr    string
	Matching  int
}

// Cache is a process-wide, thread-safe, write-once-per-key mapping from
// EncodingKey to a built value of type T (typically *bpe.Encoding),
// using double-checked locking, generalized from a fixed set of named
// TikToken encodings to arbitrary construction parameters. Errors are
// never cached: a failed build is retried on the next call with the
// same key.
type Cache[T any] struct {
	mu    sync.RWMutex
	built map[EncodingKey]T
}

// NewCache creates an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{built: make(map[EncodingKey]T)}
}

// GetOrBuild returns the cached value for key if present, otherwise
// calls build, stores the result only on success, and returns it.
func (c *Cache[T]) GetOrBuild(key EncodingKey, build func() (T, error)) (T, error) {
	c.mu.RLock()
	v, ok := c.built[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.built[key]; ok {
		return v, nil
	}

	v, err := build()
	if err != nil {
		var zero T
		return zero, err
	}
	c.built[key] = v
	return v, nil
}
