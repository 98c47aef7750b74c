package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-play/models"
)

var (
	styleNumber = regexp.MustCompile(`\d+(\.\d+)?`)
	anyDigit    = regexp.MustCompile(`\d`)
)

// RatingParseError reports a card whose rating indicator carries no number.
// The indicator is only rendered for rated apps, so this is a markup defect
// rather than a missing rating.
type RatingParseError struct {
	Style string
}

func (e *RatingParseError) Error() string {
	return fmt.Sprintf("parse card rating from style %q", e.Style)
}

func extractListing(doc *goquery.Document, urls *Resolver) ([]*models.ListingEntry, error) {
	cards := doc.Find(".card")
	entries := make([]*models.ListingEntry, 0, cards.Length())

	var err error
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		var entry *models.ListingEntry
		entry, err = extractCard(card, urls)
		if err != nil {
			return false
		}
		entries = append(entries, entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func extractCard(card *goquery.Selection, urls *Resolver) (*models.ListingEntry, error) {
	entry := &models.ListingEntry{
		ID:     card.AttrOr("data-docid", ""),
		URL:    urls.Absolute(card.Find("a").First().AttrOr("href", "")),
		Title:  strings.TrimSpace(card.Find("a.title").First().AttrOr("title", "")),
		Image:  urls.Absolute(card.Find("img.cover-image").First().AttrOr("data-cover-large", "")),
		Author: strings.TrimSpace(card.Find("a.subtitle").First().AttrOr("title", "")),
	}

	if rating := card.Find(".current-rating").First(); rating.Length() > 0 {
		value, err := CardRating(rating.AttrOr("style", ""))
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", entry.ID, err)
		}
		entry.Rating = value
	}

	if price := card.Find(".display-price").First(); price.Length() > 0 {
		if text := strings.TrimSpace(price.Text()); anyDigit.MatchString(text) {
			entry.Price = &text
		}
	}

	return entry, nil
}

// CardRating converts a rating indicator style such as "width: 80%" to stars.
// The style encodes a 0-100 scale; every 20 points is one star.
func CardRating(style string) (float64, error) {
	match := styleNumber.FindString(style)
	if match == "" {
		return 0, &RatingParseError{Style: style}
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, &RatingParseError{Style: style}
	}
	return clampRating(value / 20), nil
}
