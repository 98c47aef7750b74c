package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/aluiziolira/go-scrape-play/models"
)

// XPath expressions for the schema.org microdata layout.
const (
	xpLegacyTitle       = `//*[@itemprop="name" and not(ancestor::*[@itemprop="author"])]`
	xpLegacyURL         = `//link[@rel="alternate"]`
	xpLegacyImage       = `//*[@itemprop="image"]`
	xpLegacyAuthorName  = `//*[@itemprop="author"]//*[@itemprop="name"]`
	xpLegacyAuthorURL   = `//*[@itemprop="author"]//*[@itemprop="url"]`
	xpLegacyGenre       = `//*[@itemprop="genre"]`
	xpLegacyPrice       = `//*[@itemprop="offers"]//*[@itemprop="price"]`
	xpLegacyScreenshot  = `//*[@itemprop="screenshot"]`
	xpLegacyDescription = `//*[@itemprop="description"]/div`
	xpLegacyRating      = `//*[@itemprop="aggregateRating"]//*[@itemprop="ratingValue"]`
	xpLegacyVotes       = `//*[@itemprop="aggregateRating"]//*[@itemprop="ratingCount"]`
	xpLegacyUpdated     = `//*[@itemprop="datePublished"]`
	xpLegacySize        = `//*[@itemprop="fileSize"]`
	xpLegacyDownloads   = `//*[@itemprop="numDownloads"]`
	xpLegacyVersion     = `//*[@itemprop="softwareVersion"]`
	xpLegacyOS          = `//*[@itemprop="operatingSystems"]`
	xpLegacyContent     = `//*[@itemprop="contentRating"]`
	xpLegacyChanges     = `//*[contains(concat(" ", normalize-space(@class), " "), " recent-change ")]`
	xpLegacyVideo       = `//*[contains(concat(" ", normalize-space(@class), " "), " play-action-container ") and @data-video-url]`
	xpLegacyVideoImage  = `//*[contains(concat(" ", normalize-space(@class), " "), " video-image ")]`
)

// LegacyStrategy reads the older microdata-annotated detail page layout.
// Listing pages did not change between the two eras.
type LegacyStrategy struct {
	urls *Resolver
}

// Name implements Strategy.
func (s *LegacyStrategy) Name() string { return "legacy" }

// Listing implements Strategy.
func (s *LegacyStrategy) Listing(doc *goquery.Document) ([]*models.ListingEntry, error) {
	return extractListing(doc, s.urls)
}

// App implements Strategy.
func (s *LegacyStrategy) App(doc *goquery.Document, id string) (*models.AppRecord, error) {
	root := firstNode(doc.Selection)
	if root == nil {
		return nil, &MarkupError{Page: "app", Missing: "document"}
	}
	title := htmlquery.FindOne(root, xpLegacyTitle)
	if title == nil {
		return nil, &MarkupError{Page: "app", Missing: "title"}
	}

	app := newAppRecord(id)
	app.Title = strings.TrimSpace(htmlquery.InnerText(title))
	app.URL = s.urls.Absolute(xpathAttr(root, xpLegacyURL, "href"))
	app.Image = s.urls.Absolute(xpathAttr(root, xpLegacyImage, "src"))
	app.Author = optional(xpathText(root, xpLegacyAuthorName))
	if app.Author != nil {
		app.AuthorLink = s.urls.AbsoluteOptional(xpathAttr(root, xpLegacyAuthorURL, "content"))
	}

	for _, genre := range htmlquery.Find(root, xpLegacyGenre) {
		app.Categories = append(app.Categories, strings.TrimSpace(htmlquery.InnerText(genre)))
	}
	if price := htmlquery.FindOne(root, xpLegacyPrice); price != nil {
		app.Price = NormalizePrice(htmlquery.SelectAttr(price, "content"))
	}
	for _, shot := range htmlquery.Find(root, xpLegacyScreenshot) {
		if src := s.urls.Absolute(htmlquery.SelectAttr(shot, "src")); src != "" {
			app.Screenshots = append(app.Screenshots, src)
		}
	}

	desc := CleanDescription(htmlquery.FindOne(root, xpLegacyDescription))
	app.Description = desc.Text
	app.DescriptionHTML = desc.HTML

	app.Rating = ParseRating(xpathAttr(root, xpLegacyRating, "content"))
	app.Votes = ParseVotes(xpathAttr(root, xpLegacyVotes, "content"))

	app.LastUpdated = optional(xpathText(root, xpLegacyUpdated))
	app.Size = optional(xpathText(root, xpLegacySize))
	app.Downloads = optional(xpathText(root, xpLegacyDownloads))
	app.Version = optional(xpathText(root, xpLegacyVersion))
	app.SupportedOS = optional(xpathText(root, xpLegacyOS))
	app.ContentRating = optional(xpathText(root, xpLegacyContent))

	var changes []string
	for _, change := range htmlquery.Find(root, xpLegacyChanges) {
		if text := strings.TrimSpace(CleanDescription(change).Text); text != "" {
			changes = append(changes, text)
		}
	}
	app.WhatsNew = optional(strings.Join(changes, "\n"))

	app.VideoLink = s.urls.AbsoluteOptional(xpathAttr(root, xpLegacyVideo, "data-video-url"))
	if app.VideoLink != nil {
		app.VideoImage = s.urls.AbsoluteOptional(xpathAttr(root, xpLegacyVideoImage, "src"))
	}

	return app, nil
}

func xpathText(root *html.Node, expr string) string {
	n := htmlquery.FindOne(root, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

func xpathAttr(root *html.Node, expr, attr string) string {
	n := htmlquery.FindOne(root, expr)
	if n == nil {
		return ""
	}
	return htmlquery.SelectAttr(n, attr)
}
