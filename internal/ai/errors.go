package ai

import (
	"strings"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	KindNotConfigured ErrorKind = "not_configured"
	KindAuth          ErrorKind = "auth"
	KindRateLimit     ErrorKind = "rate_limit"
	KindSafetyBlocked ErrorKind = "safety_blocked"
	KindEmptyReply    ErrorKind = "empty_reply"
	KindGeneration    ErrorKind = "generation"
)

var (
	ErrNotConfigured = errors.New("reply generator not configured: provider credential is missing")
	ErrEmptyReply    = errors.New("empty response from provider")
)

// Error is a classified generation failure. Err keeps the provider detail
// for logs; it must not be shown to callers.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the classification of err, if it carries one.
func KindOf(err error) (ErrorKind, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae.Kind, true
	}
	return "", false
}

// errorPatterns maps provider wording to kinds, checked in order and
// case-sensitively. Provider messages change without notice, so this table is
// best-effort and will need updates; anything unmatched is KindGeneration.
var errorPatterns = []struct {
	substr string
	kind   ErrorKind
}{
	{"API key", KindAuth},
	{"API_KEY", KindAuth},
	{"authentication", KindAuth},
	{"quota", KindRateLimit},
	{"rate limit", KindRateLimit},
	{"RESOURCE_EXHAUSTED", KindRateLimit},
	{"safety", KindSafetyBlocked},
	{"SAFETY", KindSafetyBlocked},
	{"PROHIBITED_CONTENT", KindSafetyBlocked},
}

// Classify wraps a backend failure into an *Error. Already classified errors
// are returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	msg := err.Error()
	for _, p := range errorPatterns {
		if strings.Contains(msg, p.substr) {
			return &Error{Kind: p.kind, Err: err}
		}
	}
	return &Error{Kind: KindGeneration, Err: errors.Wrap(err, "failed to generate reply")}
}
