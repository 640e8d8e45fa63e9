package bpe

import "testing"

func segmentsEqual(t *testing.T, got []segment, want []segment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].kind != want[i].kind {
			t.Fatalf("segment %d: kind mismatch: got %v want %v", i, got[i].kind, want[i].kind)
		}
		switch want[i].kind {
		case segmentOrdinary:
			if string(got[i].text) != string(want[i].text) {
				t.Fatalf("segment %d: got text %q, want %q", i, got[i].text, want[i].text)
			}
		case segmentSpecial:
			if got[i].id != want[i].id || got[i].token != want[i].token {
				t.Fatalf("segment %d: got {%d,%q}, want {%d,%q}", i, got[i].id, got[i].token, want[i].id, want[i].token)
			}
		}
	}
}

func TestSplitSpecialsDisallowed(t *testing.T) {
	specials := map[string]int{"<|bos|>": 100}
	segs := splitSpecials([]byte("<|bos|>hi"), specials, Parity, false)
	segmentsEqual(t, segs, []segment{{kind: segmentOrdinary, text: []byte("<|bos|>hi")}})
}

func TestSplitSpecialsParitySimple(t *testing.T) {
	specials := map[string]int{"<|bos|>": 100, "<|eos|>": 101}
	segs := splitSpecials([]byte("a<|bos|>b<|eos|>"), specials, Parity, true)
	segmentsEqual(t, segs, []segment{
		{kind: segmentOrdinary, text: []byte("a")},
		{kind: segmentSpecial, id: 100, token: "<|bos|>"},
		{kind: segmentOrdinary, text: []byte("b")},
		{kind: segmentSpecial, id: 101, token: "<|eos|>"},
	})
}

func TestSplitSpecialsLongestPrefersLongerLiteral(t *testing.T) {
	specials := map[string]int{"<|a|>": 1, "<|a|>b": 2}
	segs := splitSpecials([]byte("<|a|>b"), specials, Longest, true)
	segmentsEqual(t, segs, []segment{
		{kind: segmentSpecial, id: 2, token: "<|a|>b"},
	})
}

func TestSplitSpecialsParityFirstSortedMatchWins(t *testing.T) {
	// Both literals match at position 0; Parity picks the first in
	// sorted-byte order ("<|a|>" sorts before "<|a|>b"), unlike Longest.
	specials := map[string]int{"<|a|>": 1, "<|a|>b": 2}
	segs := splitSpecials([]byte("<|a|>b"), specials, Parity, true)
	segmentsEqual(t, segs, []segment{
		{kind: segmentSpecial, id: 1, token: "<|a|>"},
		{kind: segmentOrdinary, text: []byte("b")},
	})
}

func TestByteTrieLongestMatch(t *testing.T) {
	trie := newByteTrie(map[string]int{"ab": 1, "abc": 2, "b": 3})
	length, id, ok := trie.longestMatch([]byte("abcd"))
	if !ok || length != 3 || id != 2 {
		t.Fatalf("got (%d,%d,%v), want (3,2,true)", length, id, ok)
	}
}

func TestByteTrieNoMatch(t *testing.T) {
	trie := newByteTrie(map[string]int{"xy": 1})
	_, _, ok := trie.longestMatch([]byte("abc"))
	if ok {
		t.Fatal("expected no match")
	}
}
