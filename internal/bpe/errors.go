package bpe

import "fmt"

// InvalidPatternError reports a pre-tokenization pattern that failed to
// compile, or was empty.
type InvalidPatternError struct {
	Source  string
	Message string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Source, e.Message)
}

// OverlappingIDsError reports a rank and a special token sharing an id.
type OverlappingIDsError struct {
	ID int
}

func (e *OverlappingIDsError) Error() string {
	return fmt.Sprintf("id %d is used by both the rank table and the special token table", e.ID)
}

// InvalidIDError reports a decode input that wasn't a non-negative integer.
type InvalidIDError struct {
	Value int
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid token id %d: must be non-negative", e.Value)
}

// UnknownIDError reports a decode input with no entry in either table.
type UnknownIDError struct {
	Value int
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown token id %d", e.Value)
}

// UnencodableBytesError reports a piece the BPE merge loop couldn't
// fully cover with known ranks. This should not occur for Kimi
// artifacts, which carry all 256 single-byte ranks.
type UnencodableBytesError struct {
	Offset int
	Bytes  []byte
}

func (e *UnencodableBytesError) Error() string {
	return fmt.Sprintf("no rank covers bytes %x at offset %d", e.Bytes, e.Offset)
}
