package twisty

import (
	"errors"
	"fmt"
)

// Sentinel kinds matched with errors.Is.
var (
	ErrParse      = errors.New("twisty: parse error")
	ErrRange      = errors.New("twisty: index out of range")
	ErrStructural = errors.New("twisty: structural error")
)

// ParseError reports a malformed fold notation token.
type ParseError struct {
	Token    string // offending token, verbatim
	Position int    // zero-based token position in the notation
	Reason   string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("twisty: token %d %q: %s", e.Position, e.Token, e.Reason)
}

// Is reports whether target is ErrParse.
func (e ParseError) Is(target error) bool { return target == ErrParse }

// RangeError reports an index outside [Min, Max).
type RangeError struct {
	What  string
	Index int
	Min   int
	Max   int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("twisty: %s (%d) out of range [%d..%d)", e.What, e.Index, e.Min, e.Max)
}

// Is reports whether target is ErrRange.
func (e RangeError) Is(target error) bool { return target == ErrRange }

// StructuralError reports input that cannot be assembled at all, such as an
// empty trunk list or an unknown merge face.
type StructuralError struct {
	Reason string
}

func (e StructuralError) Error() string {
	return "twisty: " + e.Reason
}

// Is reports whether target is ErrStructural.
func (e StructuralError) Is(target error) bool { return target == ErrStructural }

func checkRange(what string, index, n int) error {
	if index < 0 || index >= n {
		return RangeError{What: what, Index: index, Min: 0, Max: n}
	}
	return nil
}
