// Package upstream describes failures reported by the third-party APIs the gateway fronts.
package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a non-success HTTP response from an upstream API. Gateways relay
// StatusCode and Body to their caller unchanged.
type Error struct {
	Service    string
	StatusCode int
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, Truncate(string(e.Body), 200))
}

// Payload returns the upstream body as JSON for relaying. Bodies that are not
// JSON relay as an empty object.
func (e *Error) Payload() any {
	if len(e.Body) > 0 && json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	return map[string]any{}
}

// As reports whether err wraps an upstream Error and returns it.
func As(err error) (*Error, bool) {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// Truncate limits s to n runes for logging.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
