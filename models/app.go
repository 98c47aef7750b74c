// Package models defines data structures for the scraper.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Record is a single output row, keyed by its storefront id.
type Record interface {
	RecordID() string
	CSVRecord() []string
}

// AppCSVHeader names the columns produced by AppRecord.CSVRecord.
var AppCSVHeader = []string{
	"id", "url", "image", "title", "author", "author_link", "categories", "price",
	"screenshots", "description", "rating", "votes", "last_updated", "size",
	"downloads", "version", "supported_os", "content_rating", "whatsnew",
	"video_link", "video_image",
}

// ListingCSVHeader names the columns produced by ListingEntry.CSVRecord.
var ListingCSVHeader = []string{"id", "url", "title", "image", "author", "rating", "price"}

// AppRecord is the full detail page of one app. Optional fields are nil when
// the page does not carry them; a nil Price means the app is free.
type AppRecord struct {
	ID              string   `json:"id"`
	URL             string   `json:"url"`
	Image           string   `json:"image"`
	Title           string   `json:"title"`
	Author          *string  `json:"author"`
	AuthorLink      *string  `json:"author_link"`
	Categories      []string `json:"categories"`
	Price           *string  `json:"price"`
	Screenshots     []string `json:"screenshots"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"description_html"`
	Rating          float64  `json:"rating"`
	Votes           int      `json:"votes"`
	LastUpdated     *string  `json:"last_updated"`
	Size            *string  `json:"size"`
	Downloads       *string  `json:"downloads"`
	Version         *string  `json:"version"`
	SupportedOS     *string  `json:"supported_os"`
	ContentRating   *string  `json:"content_rating"`
	WhatsNew        *string  `json:"whatsnew"`
	VideoLink       *string  `json:"video_link"`
	VideoImage      *string  `json:"video_image"`
}

// RecordID implements Record.
func (a *AppRecord) RecordID() string { return a.ID }

// CSVRecord implements Record. Lists are joined with "|".
func (a *AppRecord) CSVRecord() []string {
	return []string{
		a.ID,
		a.URL,
		a.Image,
		a.Title,
		deref(a.Author),
		deref(a.AuthorLink),
		strings.Join(a.Categories, "|"),
		deref(a.Price),
		strings.Join(a.Screenshots, "|"),
		a.Description,
		strconv.FormatFloat(a.Rating, 'f', -1, 64),
		strconv.Itoa(a.Votes),
		deref(a.LastUpdated),
		deref(a.Size),
		deref(a.Downloads),
		deref(a.Version),
		deref(a.SupportedOS),
		deref(a.ContentRating),
		deref(a.WhatsNew),
		deref(a.VideoLink),
		deref(a.VideoImage),
	}
}

// IsFree reports whether the app has no price.
func (a *AppRecord) IsFree() bool { return a.Price == nil }

// ListingEntry is one card on a collection or search page.
type ListingEntry struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Title  string  `json:"title"`
	Image  string  `json:"image"`
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Price  *string `json:"price"`
}

// RecordID implements Record.
func (l *ListingEntry) RecordID() string { return l.ID }

// CSVRecord implements Record.
func (l *ListingEntry) CSVRecord() []string {
	return []string{
		l.ID,
		l.URL,
		l.Title,
		l.Image,
		l.Author,
		strconv.FormatFloat(l.Rating, 'f', -1, 64),
		deref(l.Price),
	}
}

// ListingIDs returns the ids of entries in order.
func ListingIDs(entries []*ListingEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// RunResult holds the overall result of a CLI run.
type RunResult struct {
	StartTime    time.Time
	EndTime      time.Time
	RecordCount  int
	RequestCount int
	ErrorsByType map[string]int
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
