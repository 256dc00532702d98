package twisty

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is one parsed fold token such as "3L2".
type Move struct {
	Ordinal int  // 1-based number of the downward-facing prism
	Prism   int  // chain index, (Ordinal-1)*2
	Left    bool // left sloping side when true, right otherwise
	Twists  int  // 0..3
}

// String returns the move in notation form.
func (m Move) String() string {
	side := "R"
	if m.Left {
		side = "L"
	}
	return fmt.Sprintf("%d%s%d", m.Ordinal, side, m.Twists)
}

// ParseNotation parses a whole fold notation for a chain of pieceCount
// prisms. Nothing is applied; the first malformed token is reported as a
// ParseError. An empty notation yields no moves.
func ParseNotation(notation string, pieceCount int) ([]Move, error) {
	if notation == "" {
		return nil, nil
	}
	tokens := strings.Split(notation, "-")
	moves := make([]Move, 0, len(tokens))
	for i, token := range tokens {
		m, err := parseMove(token, i, pieceCount)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// parseMove parses a single token. The first 'L' marks the side; without
// one the first 'R' does.
func parseMove(token string, position, pieceCount int) (Move, error) {
	fail := func(format string, args ...any) (Move, error) {
		return Move{}, ParseError{Token: token, Position: position, Reason: fmt.Sprintf(format, args...)}
	}

	var m Move
	pos := strings.IndexByte(token, 'L')
	if pos >= 0 {
		m.Left = true
	} else if pos = strings.IndexByte(token, 'R'); pos < 0 {
		return fail("no L or R sloping side")
	}

	ordinalStr := token[:pos]
	if ordinalStr == "" {
		return fail("empty downward-facing prism number")
	}
	ordinal, err := strconv.Atoi(ordinalStr)
	if err != nil {
		return fail("downward-facing prism number %q is not a number", ordinalStr)
	}
	m.Ordinal = ordinal
	m.Prism = (ordinal - 1) * 2
	if m.Prism < 0 || m.Prism >= pieceCount {
		return fail("downward-facing prism number %d out of range [1..%d]", ordinal, (pieceCount+1)/2)
	}

	twistsStr := token[pos+1:]
	if twistsStr == "" {
		return fail("empty number of twists")
	}
	twists, err := strconv.Atoi(twistsStr)
	if err != nil {
		return fail("number of twists %q is not a number", twistsStr)
	}
	if twists < 0 || twists > 3 {
		return fail("number of twists %d out of range [0..3]", twists)
	}
	m.Twists = twists
	return m, nil
}
