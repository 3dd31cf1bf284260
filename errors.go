package main

import (
	"fmt"
	"strings"
)

// CompileError is a positioned diagnostic produced by the lexer or parser.
type CompileError struct {
	Line    int
	Col     int
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Message)
}

// ErrorList accumulates diagnostics during lexing and parsing. The lexer
// owns one instance; the parser appends to it instead of aborting so a
// caller can report every syntax error in one pass.
type ErrorList struct {
	Errors []CompileError
}

func NewErrorList() *ErrorList {
	return &ErrorList{}
}

func (el *ErrorList) Add(line, col int, format string, args ...interface{}) {
	el.Errors = append(el.Errors, CompileError{
		Line:    line,
		Col:     col,
		Message: fmt.Sprintf(format, args...),
	})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) String() string {
	var sb strings.Builder
	for i, e := range el.Errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Err returns the accumulated diagnostics as a single error, or nil.
func (el *ErrorList) Err() error {
	if !el.HasErrors() {
		return nil
	}
	return fmt.Errorf("%s", el.String())
}
