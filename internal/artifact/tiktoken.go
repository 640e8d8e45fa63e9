// Package artifact parses the two on-disk artifact shapes a Kimi-style
// tokenizer is distributed as: a line-oriented "tiktoken.model" rank
// table and a "tokenizer_config.json" special-token section. Parsing is
// mechanical and bit-exact to the documented formats; neither file is
// fetched over the network here, see internal/hub for the (local-only)
// artifact resolution half.
package artifact

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"
)

// LoadTiktokenModel reads a tiktoken.model file: one record per
// non-empty line, each record "BASE64 WS+ DECIMAL". Lines that don't
// split into exactly two whitespace-separated fields are ignored.
// Duplicate byte-strings resolve last-wins, matching the reference
// loader's behavior; callers should supply deduplicated inputs.
func LoadTiktokenModel(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTiktokenModel(path, data)
}

func parseTiktokenModel(path string, data []byte) (map[string]int, error) {
	ranks := make(map[string]int)
	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}

		token, err := base64.StdEncoding.DecodeString(fields[0])
		if err != nil {
			return nil, &InvalidModelError{Path: path, Reason: "decoding base64 token: " + err.Error()}
		}
		rank, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &InvalidModelError{Path: path, Reason: "parsing rank: " + err.Error()}
		}
		ranks[string(token)] = rank
	}

	if len(ranks) == 0 {
		return nil, &EmptyModelError{Path: path}
	}
	return ranks, nil
}
