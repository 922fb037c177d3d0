package types

import "fmt"

// ParseResult holds the definitions recovered from one file, each list in
// source order. A failed parse has empty lists and at least one error.
type ParseResult struct {
	Path      string
	Classes   []Definition
	Functions []Definition
	Errors    []ParseError
}

// NewParseResult returns a result for path with empty, non-nil lists
func NewParseResult(path string) *ParseResult {
	return &ParseResult{
		Path:      path,
		Classes:   []Definition{},
		Functions: []Definition{},
	}
}

// Add appends d to the list for its kind
func (pr *ParseResult) Add(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Kind == KindClass {
		pr.Classes = append(pr.Classes, d)
	} else {
		pr.Functions = append(pr.Functions, d)
	}
	return nil
}

// Fail drops every definition and records why. line and col are 0 when unknown.
func (pr *ParseResult) Fail(line, col int, msg string) {
	pr.Classes = []Definition{}
	pr.Functions = []Definition{}
	pr.Errors = append(pr.Errors, ParseError{
		File:    pr.Path,
		Line:    line,
		Column:  col,
		Message: msg,
	})
}

// Failed reports whether any error was recorded
func (pr *ParseResult) Failed() bool {
	return len(pr.Errors) > 0
}

// ParseError locates a parse failure
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}
