package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SyntaxError locates a JSON syntax error by line and column.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

// decode unmarshals one data file, reporting syntax errors with their position.
func decode(file string, data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := position(data, syntaxErr.Offset)
		return &SyntaxError{File: file, Line: line, Column: col, Offset: syntaxErr.Offset, Err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := position(data, typeErr.Offset)
		return &SyntaxError{File: file, Line: line, Column: col, Offset: typeErr.Offset, Err: err}
	}
	return fmt.Errorf("%s: %w", file, err)
}
