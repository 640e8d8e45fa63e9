package bpe

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// compilePattern compiles a pre-tokenization pattern source, translating
// away any "&&" intersection classes first, in Unicode-aware mode.
func compilePattern(source string) (*regexp2.Regexp, error) {
	if source == "" {
		return nil, &InvalidPatternError{Source: source, Message: "pattern source must not be empty"}
	}
	translated := Translate(source)
	re, err := regexp2.Compile(translated, regexp2.None)
	if err != nil {
		return nil, &InvalidPatternError{Source: source, Message: err.Error()}
	}
	return re, nil
}

// pretokenize applies the compiled pattern to text, returning the
// sequence of non-overlapping, contiguous byte slices the pattern's
// matches cover, in order. Matching is done over runes (regexp2 has no
// native byte-oriented Unicode mode), then converted back to byte
// offsets, which is safe because every Kimi pattern alternative matches
// whole codepoints.
func pretokenize(text []byte, re *regexp2.Regexp) ([][]byte, error) {
	if len(text) == 0 {
		return nil, nil
	}

	runes := []rune(string(text))
	byteOffsets := runeByteOffsets(text, runes)

	var pieces [][]byte
	asStr := string(runes)
	m, err := re.FindStringMatch(asStr)
	if err != nil {
		return nil, fmt.Errorf("matching pre-tokenization pattern: %w", err)
	}
	for m != nil {
		startRune := m.Index
		endRune := m.Index + m.Length
		piece := text[byteOffsets[startRune]:byteOffsets[endRune]]
		if len(piece) > 0 {
			pieces = append(pieces, piece)
		}
		m, err = re.FindNextMatch(m)
		if err != nil {
			return nil, fmt.Errorf("matching pre-tokenization pattern: %w", err)
		}
	}
	return pieces, nil
}

// runeByteOffsets returns, for each rune index in runes (plus one
// trailing entry for len(runes)), the byte offset into text where that
// rune starts.
func runeByteOffsets(text []byte, runes []rune) []int {
	offsets := make([]int, len(runes)+1)
	b := 0
	for i, r := range runes {
		offsets[i] = b
		b += utf8.RuneLen(r)
	}
	offsets[len(runes)] = len(text)
	return offsets
}
