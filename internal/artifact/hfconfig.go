package artifact

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// tokenizerConfig mirrors the subset of tokenizer_config.json the
// tokenizer engine consumes: the added_tokens_decoder map of
// stringified-integer-id -> {content}.
type tokenizerConfig struct {
	AddedTokensDecoder map[string]addedToken `json:"added_tokens_decoder"`
}

type addedToken struct {
	Content string `json:"content"`
}

// reservedTokenBand is how many ids past baseCount Kimi reserves for
// special tokens: [baseCount, baseCount+reservedTokenBand).
const reservedTokenBand = 256

// BuildSpecialTokens builds the content -> id special-token table for
// ids in [baseCount, baseCount+256). For each id, it uses
// config["added_tokens_decoder"][id]["content"] when the entry exists,
// even if content is an empty string, otherwise defaults to the literal
// "<|reserved_token_<id>|>". path is used only to label errors; pass
// the source file's path, or "" if configJSON didn't come from a file.
func BuildSpecialTokens(path string, configJSON []byte, baseCount int) (map[string]int, error) {
	var cfg tokenizerConfig
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &cfg); err != nil {
			return nil, &InvalidJSONError{Path: path, Reason: err.Error()}
		}
	}

	for key := range cfg.AddedTokensDecoder {
		if _, err := strconv.Atoi(key); err != nil {
			return nil, &InvalidSpecialTokensError{Reason: fmt.Sprintf("non-numeric added_tokens_decoder key %q", key)}
		}
	}

	specials := make(map[string]int, reservedTokenBand)
	for id := baseCount; id < baseCount+reservedTokenBand; id++ {
		content := defaultReservedTokenName(id)
		if tok, ok := cfg.AddedTokensDecoder[strconv.Itoa(id)]; ok {
			content = tok.Content
		}
		specials[content] = id
	}
	return specials, nil
}

func defaultReservedTokenName(id int) string {
	return fmt.Sprintf("<|reserved_token_%d|>", id)
}
