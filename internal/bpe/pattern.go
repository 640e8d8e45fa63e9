package bpe

import "strings"

// KimiPatStr is the canonical Kimi-K2 pre-tokenization pattern, already
// translated to drop the intersection classes ("&&") that regexp2 (and
// most other engines) do not implement. See Translate for the rewrite
// rule and §6 of the tokenizer spec for the four substitutions this
// constant already has applied.
const KimiPatStr = `[\p{Han}]+` +
	`|[^\r\n\p{L}\p{N}]?(?:(?!\p{Han})[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}])*(?:(?!\p{Han})[\p{Ll}\p{Lm}\p{Lo}\p{M}])+(?i:'s|'t|'re|'ve|'m|'ll|'d)?` +
	`|[^\r\n\p{L}\p{N}]?(?:(?!\p{Han})[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}])+(?:(?!\p{Han})[\p{Ll}\p{Lm}\p{Lo}\p{M}])*(?i:'s|'t|'re|'ve|'m|'ll|'d)?` +
	`|\p{N}{1,3}` +
	`| ?[^\s\p{L}\p{N}]+[\r\n]*` +
	`|\s*[\r\n]+` +
	`|\s+(?!\S)` +
	`|\s+`

// intersectionRewrite is one `[CLASS && [^\p{Han}]]` -> `(?:(?!\p{Han})CLASS)`
// substitution, applied verbatim as a string replace. The translator is
// deliberately not a general regex-AST rewriter: it only recognizes the
// four concrete spellings Kimi's pat_str uses.
type intersectionRewrite struct {
	from string
	to   string
}

var intersectionRewrites = []intersectionRewrite{
	{
		from: `[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}&&[^\p{Han}]]*`,
		to:   `(?:(?!\p{Han})[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}])*`,
	},
	{
		from: `[\p{Ll}\p{Lm}\p{Lo}\p{M}&&[^\p{Han}]]+`,
		to:   `(?:(?!\p{Han})[\p{Ll}\p{Lm}\p{Lo}\p{M}])+`,
	},
	{
		from: `[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}&&[^\p{Han}]]+`,
		to:   `(?:(?!\p{Han})[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}])+`,
	},
	{
		from: `[\p{Ll}\p{Lm}\p{Lo}\p{M}&&[^\p{Han}]]*`,
		to:   `(?:(?!\p{Han})[\p{Ll}\p{Lm}\p{Lo}\p{M}])*`,
	},
}

// Translate rewrites a TikToken pat_str that contains intersection
// classes ("A && B") into an equivalent pattern that uses negative
// lookahead instead, for regex engines (like regexp2) that don't
// implement "&&". Patterns that contain none of the four recognized
// spellings are returned unchanged.
//
// The rewrite is a fixed-point: none of the replacement strings
// contain any of the four "from" spellings, so applying Translate
// twice is the same as applying it once.
func Translate(source string) string {
	out := source
	for _, r := range intersectionRewrites {
		out = strings.ReplaceAll(out, r.from, r.to)
	}
	return out
}

// HasIntersectionClass reports whether source contains "&&" anywhere.
// Applied to Translate's output, a true result means an intersection
// class the translator doesn't recognize. Callers can use this to fail
// construction early with a clearer message than a regex compile error
// produced downstream.
func HasIntersectionClass(source string) bool {
	return strings.Contains(source, "&&")
}
