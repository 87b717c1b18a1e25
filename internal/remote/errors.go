package remote

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUserNotFound is returned when loginUser resolves to null
var ErrUserNotFound = errors.New("no user registered with this email")

// TransportError wraps network failures and non-2xx responses
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body == "" {
			return fmt.Sprintf("%s: graphql endpoint returned status %d", e.Op, e.StatusCode)
		}
		return fmt.Sprintf("%s: graphql endpoint returned status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// GraphQLError is one entry of the response errors array
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Location points into the query document
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ApplicationError is a GraphQL errors array delivered with a successful HTTP status
type ApplicationError struct {
	Errors []GraphQLError
}

func (e *ApplicationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}
