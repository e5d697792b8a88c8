package syntax

import "fmt"

// ParseError is the error for malformed schema source. It points at the
// offending token with a 1-based line and column.
type ParseError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}
