package darksky

import (
	"fmt"
	"strings"
)

// Kind classifies a ForecastError.
type Kind int

const (
	KindMissingParameter Kind = iota + 1
	KindInvalidParameter
	KindInvalidURL
	KindFetchFailed
	KindPrematureEOF
	KindDecodeFailed
)

var kindNames = map[Kind]string{
	KindMissingParameter: "missing parameter",
	KindInvalidParameter: "invalid parameter",
	KindInvalidURL:       "invalid url",
	KindFetchFailed:      "fetch failed",
	KindPrematureEOF:     "premature eof",
	KindDecodeFailed:     "decode failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrMissingParameter = &ForecastError{Kind: KindMissingParameter}
	ErrInvalidParameter = &ForecastError{Kind: KindInvalidParameter}
	ErrInvalidURL       = &ForecastError{Kind: KindInvalidURL}
	ErrFetchFailed      = &ForecastError{Kind: KindFetchFailed}
	ErrPrematureEOF     = &ForecastError{Kind: KindPrematureEOF}
	ErrDecodeFailed     = &ForecastError{Kind: KindDecodeFailed}
)

// ForecastError is the single error type returned by this package.
// Field is set for parameter errors, Status and Message for HTTP failures.
type ForecastError struct {
	Kind    Kind
	Field   string
	Status  int
	Message string
	Err     error
}

func (e *ForecastError) Error() string {
	var b strings.Builder
	b.WriteString("darksky: ")
	b.WriteString(e.Kind.String())
	if e.Field != "" {
		b.WriteString(" ")
		b.WriteString(e.Field)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ForecastError) Unwrap() error {
	return e.Err
}

func (e *ForecastError) Is(target error) bool {
	t, ok := target.(*ForecastError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func missingParameter(field string) error {
	return &ForecastError{Kind: KindMissingParameter, Field: field}
}

func invalidParameter(field string, err error) error {
	return &ForecastError{Kind: KindInvalidParameter, Field: field, Err: err}
}

func invalidURL(msg string, err error) error {
	return &ForecastError{Kind: KindInvalidURL, Message: msg, Err: err}
}

func fetchFailed(status int, msg string, err error) error {
	return &ForecastError{Kind: KindFetchFailed, Status: status, Message: msg, Err: err}
}

func prematureEOF(read, expected int64, err error) error {
	return &ForecastError{
		Kind:    KindPrematureEOF,
		Message: fmt.Sprintf("read %d of %d bytes", read, expected),
		Err:     err,
	}
}

func decodeFailed(err error) error {
	return &ForecastError{Kind: KindDecodeFailed, Err: err}
}
