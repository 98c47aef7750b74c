package scraper

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aluiziolira/go-scrape-play/parser"
)

// ErrInvalidArgument indicates a caller error detected before any request.
type ErrInvalidArgument struct {
	Field  string
	Reason string
}

func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid_argument: %q %s", e.Field, e.Reason)
}

// ErrOutOfRange indicates a well-formed parameter outside the bounds the
// storefront accepts.
type ErrOutOfRange struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("out_of_range: %q must be a number between %d and %d, got %d", e.Field, e.Min, e.Max, e.Value)
}

// ErrTimeout indicates a timeout while issuing a request.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a missing resource (HTTP 404).
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return fmt.Errorf("not_found: %w", e.Err).Error()
}

func (e ErrNotFound) Unwrap() error {
	return e.Err
}

// ErrRequestFailed indicates any other non-200 response.
type ErrRequestFailed struct {
	Status int
	URL    string
}

func (e ErrRequestFailed) Error() string {
	return fmt.Sprintf("request_failed: %s returned status %d", e.URL, e.Status)
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var invalid ErrInvalidArgument
	if errors.As(err, &invalid) {
		return "invalid_argument"
	}
	var outOfRange ErrOutOfRange
	if errors.As(err, &outOfRange) {
		return "out_of_range"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var failed ErrRequestFailed
	if errors.As(err, &failed) {
		switch failed.Status {
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusTooManyRequests:
			return "rate_limited"
		}
		return "request_failed"
	}
	var rating *parser.RatingParseError
	if errors.As(err, &rating) {
		return "rating_parse"
	}
	var markup *parser.MarkupError
	if errors.As(err, &markup) {
		return "markup"
	}
	return "other"
}
