package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so callers can branch without matching
// on message text.
type Kind int

const (
	KindUnknown Kind = iota
	ToolMissing
	ToolFailure
	NetworkFailure
	InvalidCredential
	PayloadTooLarge
	RemoteRejected
	NotFound
	ParseFailure
	IOFailure
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	ToolMissing:       "tool_missing",
	ToolFailure:       "tool_failure",
	NetworkFailure:    "network_failure",
	InvalidCredential: "invalid_credential",
	PayloadTooLarge:   "payload_too_large",
	RemoteRejected:    "remote_rejected",
	NotFound:          "not_found",
	ParseFailure:      "parse_failure",
	IOFailure:         "io_failure",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure. Message is the user-facing text; Status and
// Body are set for RemoteRejected.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind with a user-facing message.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Rejected builds a RemoteRejected error carrying the provider status and body.
func Rejected(provider string, status int, body string) *Error {
	return &Error{
		Kind:    RemoteRejected,
		Message: fmt.Sprintf("Error de %s (%d): %s", provider, status, body),
		Status:  status,
		Body:    body,
	}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Classify returns err unchanged when it is already classified, otherwise
// wraps it under the fallback kind.
func Classify(err error, fallback Kind) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: fallback, Message: err.Error(), Err: err}
}
