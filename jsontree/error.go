package jsontree

import "fmt"

// SyntaxError is any malformed-JSON failure. It carries the absolute
// character index into the original source and a bounded context window
// around the offending character, with the character bracketed in <...>
// and newlines and tabs collapsed to spaces.
//
// Tokenization is all-or-nothing per element; a SyntaxError means no
// partial tree is returned.
type SyntaxError struct {
	Msg    string
	Window string
	Index  int
}

// Error implements the error interface. The context window, when
// available, is concatenated after the raw message.
func (e *SyntaxError) Error() string {
	if e.Window == "" {
		return fmt.Sprintf("%s at %d", e.Msg, e.Index)
	}
	return fmt.Sprintf("%s at %d: %s", e.Msg, e.Index, e.Window)
}
