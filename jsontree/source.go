package jsontree

import (
	"bufio"
	"io"
	"strings"
)

// windowRadius bounds the diagnostic context reconstructed around an
// offending character.
const windowRadius = 25

// Source is a mark/resettable character stream over an arbitrary reader.
// It tracks the absolute index of the next character to be consumed and
// supports a single level of lookahead via Peek. Consumed characters are
// retained so syntax errors can reconstruct their context window.
//
// A Source is single-threaded and non-reentrant: exactly one parse walks
// it, depth-first, at a time.
type Source struct {
	r        *bufio.Reader
	consumed []rune
}

// NewSource wraps r in a Source.
func NewSource(r io.Reader) *Source {
	return &Source{r: bufio.NewReader(r)}
}

// Index returns the absolute index of the next character to be consumed.
func (s *Source) Index() int { return len(s.consumed) }

// Peek returns the next character without consuming it. At end of input
// it returns io.EOF.
func (s *Source) Peek() (rune, error) {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if err := s.r.UnreadRune(); err != nil {
		return 0, err
	}
	return c, nil
}

// Next consumes and returns the next character. At end of input it
// returns io.EOF.
func (s *Source) Next() (rune, error) {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	s.consumed = append(s.consumed, c)
	return c, nil
}

// SkipWhitespace consumes a run of space, tab, carriage-return, and
// line-feed characters. End of input is not an error here.
func (s *Source) SkipWhitespace() {
	for {
		c, err := s.Peek()
		if err != nil {
			return
		}
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return
		}
		if _, err := s.Next(); err != nil {
			return
		}
	}
}

// errAt builds a positioned SyntaxError whose window shows up to
// windowRadius characters on each side of index, with the offending
// character bracketed in <...> (or <> at end of input).
func (s *Source) errAt(index int, msg string) *SyntaxError {
	// Pull enough lookahead to fill the right half of the window.
	for len(s.consumed) < index+windowRadius+1 {
		c, _, err := s.r.ReadRune()
		if err != nil {
			break
		}
		s.consumed = append(s.consumed, c)
	}

	lo := index - windowRadius
	if lo < 0 {
		lo = 0
	}
	hi := index + windowRadius + 1
	if hi > len(s.consumed) {
		hi = len(s.consumed)
	}

	var b strings.Builder
	if index <= len(s.consumed) && lo <= index {
		b.WriteString(collapse(s.consumed[lo:min(index, len(s.consumed))]))
	}
	if index < len(s.consumed) {
		b.WriteByte('<')
		b.WriteString(collapse(s.consumed[index : index+1]))
		b.WriteByte('>')
		if index+1 < hi {
			b.WriteString(collapse(s.consumed[index+1 : hi]))
		}
	} else {
		b.WriteString("<>")
	}

	return &SyntaxError{Msg: msg, Index: index, Window: b.String()}
}

func collapse(runes []rune) string {
	var b strings.Builder
	for _, c := range runes {
		switch c {
		case '\n', '\t', '\r':
			b.WriteByte(' ')
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
