// Package errs defines the structured error taxonomy shared by every
// component of gendasm. Errors are explicit return values, not exceptions:
// the original gendasm/funcanal sources throw/catch an EXCEPTION_ERROR
// object, but a Go reimplementation carries the same Code/Data/Detail
// payload through ordinary error returns instead.
package errs

import "fmt"

// Code identifies the kind of failure, mirroring the EXCEPTION_ERROR codes
// of the original gendasm error handler.
type Code int

const (
	// None is the zero value and never appears on a real error.
	None Code = iota
	OutOfMemory
	OutOfRange
	MappingOverlap
	OpenRead
	OpenWrite
	FileExists
	Checksum
	UnexpectedEOF
	Overflow
	WriteFailed
	ReadFailed
	InvalidRecord
)

var names = map[Code]string{
	None:           "NONE",
	OutOfMemory:    "OUT_OF_MEMORY",
	OutOfRange:     "OUT_OF_RANGE",
	MappingOverlap: "MAPPING_OVERLAP",
	OpenRead:       "OPEN_READ",
	OpenWrite:      "OPEN_WRITE",
	FileExists:     "FILE_EXISTS",
	Checksum:       "CHECKSUM",
	UnexpectedEOF:  "UNEXPECTED_EOF",
	Overflow:       "OVERFLOW",
	WriteFailed:    "WRITE_FAILED",
	ReadFailed:     "READ_FAILED",
	InvalidRecord:  "INVALID_RECORD",
}

func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// Error is the payload every gendasm failure carries: a Code, a numeric
// Data value (frequently a line number), and a free-form Detail string.
type Error struct {
	Code   Code
	Data   uint
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (data=%d)", e.Code, e.Data)
	}
	return fmt.Sprintf("%s (data=%d): %s", e.Code, e.Data, e.Detail)
}

// New constructs an *Error for the given code.
func New(code Code, data uint, detail string) *Error {
	return &Error{Code: code, Data: data, Detail: detail}
}

// Is reports whether err is a gendasm *Error with the given code, looking
// through any wrapping applied with github.com/pkg/errors.
func Is(err error, code Code) bool {
	type causer interface{ Cause() error }
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
