// Package bpe implements a byte-level BPE tokenizer engine compatible
// with the TikToken family, including MoonshotAI Kimi-K2-style
// artifacts: a Unicode-aware pre-tokenizer, a special-token scanner
// with two matching disciplines, a rank-priority BPE merge engine, and
// a pattern translator that rewrites TikToken's "&&" intersection
// classes into an equivalent regexp2-compatible form.
package bpe

import (
	"github.com/dlclark/regexp2"
)

// Options configures the construction of an Encoding.
type Options struct {
	// PatStr is the pre-tokenization pattern source. Defaults to
	// KimiPatStr when empty.
	PatStr string
	// MergeableRanks is the authoritative byte-string -> rank table.
	MergeableRanks map[string]int
	// SpecialTokens is the literal-string -> id table for tokens that
	// bypass BPE entirely. Ids must be disjoint from MergeableRanks'
	// values.
	SpecialTokens map[string]int
	// SpecialTokenMatching selects the overlap discipline used by the
	// special-token scanner. Defaults to Parity.
	SpecialTokenMatching SpecialTokenMatching
}

// Encoding is an immutable, concurrency-safe BPE tokenizer instance.
// Once constructed, Encode and Decode may be called from any number of
// goroutines without external synchronization: no mutable state is
// held on the instance itself.
type Encoding struct {
	ranks          map[string]int
	decoder        map[int]string
	specials       map[string]int
	specialDecoder map[int]string
	matching       SpecialTokenMatching
	patStr         string
	pattern        *regexp2.Regexp
}

// New validates ranks and specials, compiles the pre-tokenization
// pattern, and derives the decoder tables for a new Encoding.
func New(opts Options) (*Encoding, error) {
	patStr := opts.PatStr
	if patStr == "" {
		patStr = KimiPatStr
	}

	pattern, err := compilePattern(patStr)
	if err != nil {
		return nil, err
	}

	specialIDs := make(map[int]struct{}, len(opts.SpecialTokens))
	for _, id := range opts.SpecialTokens {
		specialIDs[id] = struct{}{}
	}
	for _, rank := range opts.MergeableRanks {
		if _, clash := specialIDs[rank]; clash {
			return nil, &OverlappingIDsError{ID: rank}
		}
	}

	decoder := make(map[int]string, len(opts.MergeableRanks))
	for token, rank := range opts.MergeableRanks {
		decoder[rank] = token
	}

	specialDecoder := make(map[int]string, len(opts.SpecialTokens))
	for token, id := range opts.SpecialTokens {
		specialDecoder[id] = token
	}

	return &Encoding{
		ranks:          opts.MergeableRanks,
		decoder:        decoder,
		specials:       opts.SpecialTokens,
		specialDecoder: specialDecoder,
		matching:       opts.SpecialTokenMatching,
		patStr:         patStr,
		pattern:        pattern,
	}, nil
}

// Encode tokenizes text, optionally recognizing configured special
// tokens. When allowSpecial is false, special-token literals inside
// text are tokenized as ordinary text via BPE instead of being
// recognized as single tokens.
func (e *Encoding) Encode(text []byte, allowSpecial bool) ([]int, error) {
	segments := splitSpecials(text, e.specials, e.matching, allowSpecial)

	var ids []int
	for _, seg := range segments {
		switch seg.kind {
		case segmentSpecial:
			ids = append(ids, seg.id)
		default:
			pieces, err := pretokenize(seg.text, e.pattern)
			if err != nil {
				return nil, err
			}
			for _, piece := range pieces {
				if rank, ok := e.ranks[string(piece)]; ok {
					ids = append(ids, rank)
					continue
				}
				merged, err := bytePairEncodeChecked(piece, e.ranks)
				if err != nil {
					return nil, err
				}
				ids = append(ids, merged...)
			}
		}
	}
	return ids, nil
}

// Decode resolves each id to its byte sequence (from the rank table or
// the special-token table) and concatenates them in order.
func (e *Encoding) Decode(ids []int) ([]byte, error) {
	return decodeBytes(ids, e.decoder, e.specialDecoder)
}

// PatternSource returns the (untranslated) pattern source this
// Encoding was constructed with.
func (e *Encoding) PatternSource() string {
	return e.patStr
}

// VocabSize returns the number of entries in the rank table.
func (e *Encoding) VocabSize() int {
	return len(e.ranks)
}

// SpecialTokens returns a copy of the special-token table.
func (e *Encoding) SpecialTokens() map[string]int {
	out := make(map[string]int, len(e.specials))
	for k, v := range e.specials {
		out[k] = v
	}
	return out
}
