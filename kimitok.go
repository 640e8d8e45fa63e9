// Package kimitok is the top-level convenience surface over
// internal/bpe: it wires artifact loading (internal/artifact), local
// cache resolution (internal/hub), and construction memoization
// (internal/artifact.Cache) into LoadDir/LoadRepo, for callers who just
// want "give me an Encoding for this directory or cache entry" without
// touching the lower-level packages directly.
package kimitok

import (
	"context"
	"os"

	"github.com/moonshotai/kimi-tokenizer/internal/artifact"
	"github.com/moonshotai/kimi-tokenizer/internal/bpe"
	"github.com/moonshotai/kimi-tokenizer/internal/hub"
)

// Re-exported so callers of this package don't need to import
// internal/bpe directly for the common types.
type (
	Encoding = bpe.Encoding
	Options  = bpe.Options
)

const (
	Parity  = bpe.Parity
	Longest = bpe.Longest
)

var buildCache = artifact.NewCache[*Encoding]()

// LoadDir builds (or returns a memoized) Encoding from a directory
// containing a tiktoken.model file and, optionally, a
// tokenizer_config.json. matching selects the special-token overlap
// discipline; patStr overrides the default Kimi pre-tokenization
// pattern when non-empty.
func LoadDir(dir string, patStr string, matching bpe.SpecialTokenMatching) (*Encoding, error) {
	resolver := &hub.LocalCacheResolver{CacheDir: dir}
	key := artifact.EncodingKey{CacheRoot: dir, Revision: "local", PatStr: patStr, Matching: int(matching)}
	return build(resolver, key, "", "", patStr, matching)
}

// LoadRepo builds (or returns a memoized) Encoding by resolving
// tiktoken.model and tokenizer_config.json through a FileResolver
// rooted at cacheDir, using the huggingface_hub cache layout
// <cacheDir>/<repo>/<revision>/<filename>. It's the entry point for
// the CLI's --repo/--revision flag pair, as opposed to LoadDir's flat
// --tokenizer-dir.
func LoadRepo(cacheDir, repo, revision, patStr string, matching bpe.SpecialTokenMatching) (*Encoding, error) {
	if revision == "" {
		revision = "main"
	}
	resolver := &hub.LocalCacheResolver{CacheDir: cacheDir}
	key := artifact.EncodingKey{CacheRoot: cacheDir, Repo: repo, Revision: revision, PatStr: patStr, Matching: int(matching)}
	return build(resolver, key, repo, revision, patStr, matching)
}

func build(resolver hub.FileResolver, key artifact.EncodingKey, repo, revision, patStr string, matching bpe.SpecialTokenMatching) (*Encoding, error) {
	return buildCache.GetOrBuild(key, func() (*Encoding, error) {
		ctx := context.Background()

		modelPath, err := resolver.Resolve(ctx, repo, revision, "tiktoken.model")
		if err != nil {
			return nil, err
		}
		ranks, err := artifact.LoadTiktokenModel(modelPath)
		if err != nil {
			return nil, err
		}

		specials := map[string]int{}
		configPath, err := resolver.Resolve(ctx, repo, revision, "tokenizer_config.json")
		switch {
		case err == nil:
			data, readErr := os.ReadFile(configPath)
			if readErr != nil {
				return nil, readErr
			}
			specials, err = artifact.BuildSpecialTokens(configPath, data, len(ranks))
			if err != nil {
				return nil, err
			}
		case isCacheMiss(err):
			// no tokenizer_config.json for this repo/revision: run
			// with an empty special-token table.
		default:
			return nil, err
		}

		return bpe.New(bpe.Options{
			PatStr:               patStr,
			MergeableRanks:       ranks,
			SpecialTokens:        specials,
			SpecialTokenMatching: matching,
		})
	})
}

func isCacheMiss(err error) bool {
	_, ok := err.(*hub.ErrCacheMiss)
	return ok
}
