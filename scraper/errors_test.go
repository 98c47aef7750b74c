package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/aluiziolira/go-scrape-play/parser"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "ok", err: nil, statusCode: http.StatusOK, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "forbidden", err: nil, statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: nil, statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server error", err: nil, statusCode: http.StatusBadGateway, expected: "request_failed"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(classifyError(tt.err, tt.statusCode, "https://play.google.com/store/apps")); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestErrorTypeLabelUnwraps(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{err: fmt.Errorf("wrapped: %w", ErrInvalidArgument{Field: "id"}), expected: "invalid_argument"},
		{err: ErrOutOfRange{Field: "start", Value: 501, Max: 500}, expected: "out_of_range"},
		{err: fmt.Errorf("list: %w", &parser.RatingParseError{Style: "width: none"}), expected: "rating_parse"},
		{err: fmt.Errorf("app x: %w", &parser.MarkupError{Page: "app", Missing: "title"}), expected: "markup"},
	}
	for _, tt := range tests {
		if got := errorTypeLabel(tt.err); got != tt.expected {
			t.Fatalf("errorTypeLabel(%v) = %q, want %q", tt.err, got, tt.expected)
		}
	}
}

func TestOutOfRangeMessage(t *testing.T) {
	err := ErrOutOfRange{Field: "num", Value: 121, Min: 0, Max: 120}
	want := `out_of_range: "num" must be a number between 0 and 120, got 121`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
