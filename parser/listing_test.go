package parser

import (
	"errors"
	"testing"
)

func TestListingExtraction(t *testing.T) {
	page := "<html><body>" +
		card("com.a", "App A", "width: 80%;", "$0.99") +
		card("com.b", "App B", "", "Free") +
		card("com.c", "App C", "width: 43.5%", "") +
		"</body></html>"

	strategy, _ := NewStrategy("current", testBase)
	entries, err := strategy.Listing(mustDocument(t, page))
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	a := entries[0]
	if a.ID != "com.a" || a.Title != "App A" || a.Author != "Dev of App A" {
		t.Fatalf("unexpected entry: %+v", a)
	}
	if a.URL != "https://play.google.com/store/apps/details?id=com.a" {
		t.Fatalf("url = %q", a.URL)
	}
	if a.Image != "https://lh3.googleusercontent.com/com.a=w340" {
		t.Fatalf("image = %q", a.Image)
	}
	if a.Rating != 4.0 {
		t.Fatalf("rating = %v, want 4.0", a.Rating)
	}
	if strValue(a.Price) != "$0.99" {
		t.Fatalf("price = %s", strValue(a.Price))
	}

	b := entries[1]
	if b.Rating != 0 {
		t.Fatalf("card without rating node should default to 0, got %v", b.Rating)
	}
	if b.Price != nil {
		t.Fatalf("price without digits should be nil, got %s", strValue(b.Price))
	}

	c := entries[2]
	if diff := c.Rating - 2.175; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("rating = %v, want 2.175", c.Rating)
	}
	if c.Price != nil {
		t.Fatalf("card without price node should be free")
	}
}

func TestListingRatingParseError(t *testing.T) {
	page := "<html><body>" +
		card("com.ok", "Fine", "width: 60%", "") +
		card("com.bad", "Broken", "width: auto", "") +
		"</body></html>"

	strategy, _ := NewStrategy("legacy", testBase)
	entries, err := strategy.Listing(mustDocument(t, page))
	if err == nil {
		t.Fatalf("expected rating parse error")
	}
	if entries != nil {
		t.Fatalf("no partial entries expected on error, got %d", len(entries))
	}
	var ratingErr *RatingParseError
	if !errors.As(err, &ratingErr) {
		t.Fatalf("expected RatingParseError, got %T: %v", err, err)
	}
	if ratingErr.Style != "width: auto" {
		t.Fatalf("style = %q", ratingErr.Style)
	}
}

func TestListingEmptyPage(t *testing.T) {
	strategy, _ := NewStrategy("current", testBase)
	entries, err := strategy.Listing(mustDocument(t, "<html><body></body></html>"))
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("entries = %#v, want empty slice", entries)
	}
}

func TestCardRating(t *testing.T) {
	tests := []struct {
		style    string
		expected float64
		wantErr  bool
	}{
		{style: "width: 80%", expected: 4},
		{style: "width: 100%;", expected: 5},
		{style: "width:0%", expected: 0},
		{style: "width: 90.0%", expected: 4.5},
		{style: "", wantErr: true},
		{style: "width: none", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			got, err := CardRating(tt.style)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CardRating(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Fatalf("CardRating(%q) = %v, want %v", tt.style, got, tt.expected)
			}
		})
	}
}
