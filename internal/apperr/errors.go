// Package apperr defines the failure kinds of the chat pipeline and maps them
// to the stable shape returned to clients.
package apperr

import (
	"fmt"
)

// Kind categorizes a failure.
type Kind string

const (
	KindBadRequest       Kind = "BAD_REQUEST"
	KindLimitReached     Kind = "LIMIT_REACHED"
	KindUpstream         Kind = "UPSTREAM_ERROR"
	KindUpstreamProtocol Kind = "UPSTREAM_PROTOCOL_ERROR"
	KindCollaborator     Kind = "COLLABORATOR_ERROR"
	KindTimeout          Kind = "TIMEOUT"
	KindInternal         Kind = "INTERNAL"
)

// CodeDailyLimitReached is sent to clients alongside LIMIT_REACHED failures.
const CodeDailyLimitReached = "DAILY_LIMIT_REACHED"

// Error is a classified pipeline failure. Message is safe to show to clients;
// Err carries the internal cause and is only logged.
type Error struct {
	Kind Kind
	// Code is an optional machine readable discriminator for clients.
	Code string
	// UpstreamStatus is the completion backend status for KindUpstream, 0 when
	// the backend could not be reached.
	UpstreamStatus int
	Message        string
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func LimitReached(err error) *Error {
	return &Error{
		Kind:    KindLimitReached,
		Code:    CodeDailyLimitReached,
		Message: "Daily message limit reached. Please try again tomorrow.",
		Err:     err,
	}
}

func Upstream(status int, err error) *Error {
	return &Error{Kind: KindUpstream, UpstreamStatus: status, Message: "upstream request failed", Err: err}
}

func UpstreamProtocol(err error) *Error {
	return &Error{Kind: KindUpstreamProtocol, Message: "invalid upstream response", Err: err}
}

func Collaborator(what string, err error) *Error {
	return &Error{Kind: KindCollaborator, Message: what + " failed", Err: err}
}

func Timeout(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "request timed out", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
