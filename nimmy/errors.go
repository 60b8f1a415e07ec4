package nimmy

import (
	"fmt"
	"strings"
)

type Error interface {
	error
	GetLocation() Loc
}

type ErrorKind int

const (
	ErrorLex ErrorKind = iota
	ErrorParse
	ErrorRuntime
)

func (k ErrorKind) String() string {
	return []string{
		"lex error",
		"parse error",
		"runtime error",
	}[k]
}

// NimmyError is the single error type shared by the lexer, parser, and VM.
type NimmyError struct {
	Kind   ErrorKind
	Detail string
	Loc    Loc
}

func (e *NimmyError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s", e.Kind, e.Loc.Line, e.Loc.Col, e.Detail)
}

func (e *NimmyError) GetLocation() Loc {
	return e.Loc
}

// ShowSource renders the error with the offending source line and a caret
// under the reported column.
func (e *NimmyError) ShowSource(source string) string {
	lines := strings.Split(source, "\n")
	if e.Loc.Line > 0 && e.Loc.Line <= len(lines) {
		line := lines[e.Loc.Line-1]
		col := e.Loc.Col
		if col < 1 {
			col = 1
		}
		underline := strings.Repeat(" ", col-1) + "^"
		return fmt.Sprintf("%s\n%s\n%s", e.Error(), line, underline)
	}
	return e.Error()
}

func NewLexError(detail string, loc Loc) *NimmyError {
	return &NimmyError{Kind: ErrorLex, Detail: detail, Loc: loc}
}

func NewParseError(detail string, loc Loc) *NimmyError {
	return &NimmyError{Kind: ErrorParse, Detail: detail, Loc: loc}
}

func NewRuntimeError(detail string, loc Loc) *NimmyError {
	return &NimmyError{Kind: ErrorRuntime, Detail: detail, Loc: loc}
}
