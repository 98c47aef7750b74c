// Package parser extracts storefront records from parsed HTML documents.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-play/models"
)

const (
	maxRating = 5.0
	nbsp      = "\u00a0"
)

// ValidateRecord ensures a record carries the fields every consumer keys on.
func ValidateRecord(r models.Record) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(r.RecordID()) == "" {
		return fmt.Errorf("record missing id")
	}
	return nil
}

// NormalizePrice maps the storefront price content to an optional price.
// "0" and an empty value both mean the app is free.
func NormalizePrice(content string) *string {
	content = strings.TrimSpace(content)
	if content == "" || content == "0" {
		return nil
	}
	return &content
}

// ParseRating reads a displayed rating such as "4,5" or "4.5". Unreadable
// text yields 0.
func ParseRating(text string) float64 {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if text == "" {
		return 0
	}
	rating, err := strconv.ParseFloat(text, 64)
	if err != nil {
		slog.Debug("unparsable rating", slog.String("text", text), slog.Any("error", err))
		return 0
	}
	return clampRating(rating)
}

// ParseVotes reads a vote count with thousands separators ("1,234,567",
// "1.234.567", "1 234 567"). Unreadable text yields 0.
func ParseVotes(text string) int {
	cleaned := strings.NewReplacer(",", "", ".", "", " ", "", nbsp, "").Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0
	}
	votes, err := strconv.Atoi(cleaned)
	if err != nil {
		slog.Debug("unparsable vote count", slog.String("text", text), slog.Any("error", err))
		return 0
	}
	return votes
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > maxRating {
		return maxRating
	}
	return r
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
