package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/aluiziolira/go-scrape-play/models"
)

// Strategy extracts records from one era of storefront markup.
type Strategy interface {
	Name() string
	App(doc *goquery.Document, id string) (*models.AppRecord, error)
	Listing(doc *goquery.Document) ([]*models.ListingEntry, error)
}

// NewStrategy returns the extraction strategy for layout ("current" or
// "legacy"). URLs are resolved against base.
func NewStrategy(layout, base string) (Strategy, error) {
	urls := NewResolver(base)
	switch layout {
	case "", "current":
		return &CurrentStrategy{urls: urls}, nil
	case "legacy":
		return &LegacyStrategy{urls: urls}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", layout)
	}
}

// MarkupError reports a page that lacks a node every page of its kind has.
type MarkupError struct {
	Page    string
	Missing string
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("%s page: missing %s", e.Page, e.Missing)
}

func firstNode(sel *goquery.Selection) *html.Node {
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

func newAppRecord(id string) *models.AppRecord {
	return &models.AppRecord{
		ID:          id,
		Categories:  []string{},
		Screenshots: []string{},
	}
}
