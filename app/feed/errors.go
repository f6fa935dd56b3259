package feed

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a user can see as feedback.
type Kind string

const (
	KindBlank        Kind = "blank"
	KindMalformedURL Kind = "malformed_url"
	KindDuplicate    Kind = "duplicate"
	KindNetwork      Kind = "network_error"
	KindParsing      Kind = "parsing_error"
)

// MessageKey is the localization key of the feedback shown for the kind.
func (k Kind) MessageKey() string {
	return "errors." + string(k)
}

type Error struct {
	Kind Kind
	Err  error
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var feedErr *Error
	if errors.As(err, &feedErr) {
		return feedErr.Kind, true
	}
	return "", false
}
