package errors

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategorySchema     Category = "schema"
	CategoryExpression Category = "expression"
	CategoryModel      Category = "model"
	CategoryCLI        Category = "cli"
)

// Location represents a position in a form definition or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// FormError is a structured error with a code, an optional file location
// and a fix suggestion.
type FormError struct {
	// Code is a unique error identifier (e.g., "F020").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to.
	Location *Location

	// Context contains the file lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FormError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FormError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position to the error.
func (e *FormError) WithLocation(file string, line, column int) *FormError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// WithLocationFromError extracts the position of a JSON or YAML decode
// error in file.
func (e *FormError) WithLocationFromError(file string, err error) *FormError {
	if err == nil {
		return e
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		if line, col := offsetPosition(file, syntaxErr.Offset); line > 0 {
			return e.WithLocation(file, line, col)
		}
		return e
	}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		if line, _ := strconv.Atoi(m[1]); line > 0 {
			return e.WithLocation(file, line, 0)
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FormError) WithSuggestion(s string) *FormError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *FormError) WithDetail(d string) *FormError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FormError) Wrap(err error) *FormError {
	e.Wrapped = err
	return e
}

// offsetPosition converts a byte offset in file to a 1-based line and
// column.
func offsetPosition(file string, offset int64) (int, int) {
	data, err := os.ReadFile(file)
	if err != nil || offset <= 0 || offset > int64(len(data)) {
		return 0, 0
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n') - 1
	return line, col
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a FormError from a registered error code.
func New(code string) *FormError {
	template, ok := registry[code]
	if !ok {
		return &FormError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FormError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a FormError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *FormError {
	return &FormError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a FormError with code, unless it already is one.
func FromError(err error, code string) *FormError {
	if err == nil {
		return nil
	}
	var fe *FormError
	if stderrors.As(err, &fe) {
		return fe
	}
	return New(code).Wrap(err)
}
