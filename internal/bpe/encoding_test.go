package bpe

import (
	"strings"
	"testing"
)

// fullByteRanks gives every single byte value its own rank, enough to
// encode arbitrary UTF-8 text without any multi-byte merges, for tests
// that care about pre-tokenization and special-token behavior rather
// than merge order.
func fullByteRanks() map[string]int {
	ranks := make(map[string]int, 256)
	for b := 0; b < 256; b++ {
		ranks[string([]byte{byte(b)})] = b
	}
	return ranks
}

func newFixtureEncoding(t *testing.T, matching SpecialTokenMatching) *Encoding {
	t.Helper()
	enc, err := New(Options{
		PatStr:               `\S+|\s+`,
		MergeableRanks:       fixtureRanks(),
		SpecialTokens:        map[string]int{"<|bos|>": 100},
		SpecialTokenMatching: matching,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return enc
}

func TestEncodingRoundTrip(t *testing.T) {
	enc := newFixtureEncoding(t, Parity)
	ids, err := enc.Encode([]byte("Hello"), true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := enc.Decode(ids)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(out) != "Hello" {
		t.Fatalf("got %q, want %q", out, "Hello")
	}
}

func TestEncodingEmptyInput(t *testing.T) {
	enc := newFixtureEncoding(t, Parity)
	ids, err := enc.Encode([]byte{}, true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("got %v, want no tokens", ids)
	}
}

func TestEncodingSpecialTokenRecognized(t *testing.T) {
	enc := newFixtureEncoding(t, Parity)
	ids, err := enc.Encode([]byte("<|bos|>Hello"), true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(ids) == 0 || ids[0] != 100 {
		t.Fatalf("got %v, want special id 100 first", ids)
	}
}

func TestEncodingSpecialTokenDisallowed(t *testing.T) {
	enc := newFixtureEncoding(t, Parity)
	ids, err := enc.Encode([]byte("<|bos|>"), false)
	if err != nil {
		// The literal has no rank entries for its bytes in the fixture
		// table, so this is expected to fail encoding as ordinary text.
		if _, ok := err.(*UnencodableBytesError); !ok {
			t.Fatalf("got %T, want *UnencodableBytesError", err)
		}
		return
	}
	for _, id := range ids {
		if id == 100 {
			t.Fatal("special id must not appear when allowSpecial is false")
		}
	}
}

func TestEncodingRejectsOverlappingIDs(t *testing.T) {
	_, err := New(Options{
		MergeableRanks: map[string]int{"a": 5},
		SpecialTokens:  map[string]int{"<|x|>": 5},
	})
	if _, ok := err.(*OverlappingIDsError); !ok {
		t.Fatalf("got %T, want *OverlappingIDsError", err)
	}
}

func TestEncodingDeterministicAcrossMatchingModes(t *testing.T) {
	parity := newFixtureEncoding(t, Parity)
	longest := newFixtureEncoding(t, Longest)

	for _, enc := range []*Encoding{parity, longest} {
		first, err := enc.Encode([]byte("Hello"), true)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		second, err := enc.Encode([]byte("Hello"), true)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("non-deterministic encoding: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("non-deterministic encoding: %v vs %v", first, second)
			}
		}
	}
}

func TestEncodingDefaultPattern(t *testing.T) {
	enc, err := New(Options{MergeableRanks: fixtureRanks()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if enc.PatternSource() != KimiPatStr {
		t.Fatal("expected default pattern to be KimiPatStr")
	}
}

func TestEncodingMixedScriptStableAcrossMatchingModes(t *testing.T) {
	text := []byte("Mix 汉字 and ASCII")

	var results [][]int
	for _, matching := range []SpecialTokenMatching{Parity, Longest} {
		enc, err := New(Options{
			MergeableRanks:       fullByteRanks(),
			SpecialTokens:        map[string]int{"<|special|>": 256},
			SpecialTokenMatching: matching,
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		ids, err := enc.Encode(text, true)
		if err != nil {
			t.Fatalf("Encode (%v): %v", matching, err)
		}

		out, err := enc.Decode(ids)
		if err != nil {
			t.Fatalf("Decode (%v): %v", matching, err)
		}
		if string(out) != string(text) {
			t.Fatalf("round trip mismatch under %v: got %q, want %q", matching, out, text)
		}

		results = append(results, ids)
	}

	if len(results[0]) != len(results[1]) {
		t.Fatalf("id list length differs across matching modes: %v vs %v", results[0], results[1])
	}
	for i := range results[0] {
		if results[0][i] != results[1][i] {
			t.Fatalf("id list differs across matching modes at index %d: %v vs %v", i, results[0], results[1])
		}
	}
}

func TestEncodingLargeRepeatedInputDoesNotExplode(t *testing.T) {
	enc, err := New(Options{MergeableRanks: fullByteRanks()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := []byte(strings.Repeat("a", 30000))
	ids, err := enc.Encode(text, true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(ids) != len(text) {
		t.Fatalf("got %d tokens, want %d (no merges defined beyond singleton bytes)", len(ids), len(text))
	}

	out, err := enc.Decode(ids)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(out) != string(text) {
		t.Fatal("round trip mismatch on large repeated input")
	}
}

func TestEncodingVocabSize(t *testing.T) {
	enc := newFixtureEncoding(t, Parity)
	if enc.VocabSize() != len(fixtureRanks()) {
		t.Fatalf("got %d, want %d", enc.VocabSize(), len(fixtureRanks()))
	}
}
