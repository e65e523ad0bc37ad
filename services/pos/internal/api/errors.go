package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized marks a 401 from the backend. It is never retried.
var ErrUnauthorized = errors.New("unauthorized")

// Kind classifies a failed backend call.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindHTTP means the backend answered with a 4xx or 5xx status.
	KindHTTP
	// KindMalformed means the response did not have the expected shape.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil && e.Message == "" {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func malformed(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindMalformed, Op: op, Message: fmt.Sprintf(format, args...)}
}

// errorMessage pulls a human message out of an error body. The backend
// sends either {"message": "..."}, {"message": ["..."]} or {"error": "..."}.
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}

	if len(payload.Message) > 0 {
		var single string
		if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
			return single
		}
		var many []string
		if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
			return strings.Join(many, "; ")
		}
	}

	return payload.Error
}
