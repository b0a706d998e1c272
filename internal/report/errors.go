package report

import "fmt"

// ParseError is returned when report text does not match the expected grammar.
type ParseError struct {
	Source string
	Line   int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "<report>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s:%d %s: %v", src, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:%d %s", src, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(src string, line int, err error, format string, a ...any) *ParseError {
	return &ParseError{Source: src, Line: line, Msg: fmt.Sprintf(format, a...), Err: err}
}
