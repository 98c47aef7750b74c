package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-play/models"
)

// CurrentStrategy reads the utility-class detail page layout.
type CurrentStrategy struct {
	urls *Resolver
}

// Name implements Strategy.
func (s *CurrentStrategy) Name() string { return "current" }

// Listing implements Strategy.
func (s *CurrentStrategy) Listing(doc *goquery.Document) ([]*models.ListingEntry, error) {
	return extractListing(doc, s.urls)
}

// App implements Strategy. Only a missing title is an error; every other
// field falls back to its zero value.
func (s *CurrentStrategy) App(doc *goquery.Document, id string) (*models.AppRecord, error) {
	title := doc.Find(`[itemprop="name"] > span`).First()
	if title.Length() == 0 {
		return nil, &MarkupError{Page: "app", Missing: "title"}
	}

	app := newAppRecord(id)
	app.Title = strings.TrimSpace(title.Text())
	app.URL = s.urls.Absolute(doc.Find(`link[rel="alternate"]`).First().AttrOr("href", ""))
	app.Image = s.urls.Absolute(doc.Find(`[itemprop="image"]`).First().AttrOr("src", ""))

	if author := doc.Find("a.hrTbp.R8zArc").First(); author.Length() > 0 {
		app.Author = optional(author.Text())
		app.AuthorLink = s.urls.AbsoluteOptional(author.AttrOr("href", ""))
	}

	doc.Find(`[itemprop="genre"]`).Each(func(_ int, genre *goquery.Selection) {
		app.Categories = append(app.Categories, strings.TrimSpace(genre.Text()))
	})

	if price := doc.Find(`[itemprop="offers"] > [itemprop="price"]`).First(); price.Length() > 0 {
		app.Price = NormalizePrice(price.AttrOr("content", ""))
	}

	doc.Find("[data-screenshot-item-index]").Each(func(_ int, shot *goquery.Selection) {
		if src := s.urls.Absolute(shot.Find("img").First().AttrOr("src", "")); src != "" {
			app.Screenshots = append(app.Screenshots, src)
		}
	})

	desc := CleanDescription(firstNode(doc.Find(`[itemprop="description"] > content > div`)))
	app.Description = desc.Text
	app.DescriptionHTML = desc.HTML

	if rating := doc.Find(".BHMmbe").First(); rating.Length() > 0 {
		app.Rating = ParseRating(rating.Text())
	}
	if votes := doc.Find(".EymY4b > span[aria-label]").First(); votes.Length() > 0 {
		app.Votes = ParseVotes(votes.Text())
	}

	s.applyExtraInfo(doc, app)

	if whatsNew := doc.Find(`[itemprop="description"] > content`).Eq(1); whatsNew.Length() > 0 {
		app.WhatsNew = optional(CleanDescription(whatsNew.Get(0)).Text)
	}

	if video := doc.Find(".MSLVtf.NIc6yf").First(); video.Length() > 0 {
		app.VideoLink = s.urls.AbsoluteOptional(video.Find("[data-trailer-url]").First().AttrOr("data-trailer-url", ""))
		app.VideoImage = s.urls.AbsoluteOptional(video.Find("img").First().AttrOr("src", ""))
	}

	return app, nil
}

func (s *CurrentStrategy) applyExtraInfo(doc *goquery.Document, app *models.AppRecord) {
	nodes := doc.Find(".hAyfc > .htlgb")
	if nodes.Length() == 0 {
		return
	}

	start := 0
	if nodes.First().Find("div").ChildrenFiltered("img:first-child").Length() > 0 {
		start = 1 // family library icon
	}
	end := start + maxExtraRows
	if end > nodes.Length() {
		end = nodes.Length()
	}
	if start >= end {
		return
	}

	rows := make([]extraRow, 0, end-start)
	nodes.Slice(start, end).Each(func(_ int, node *goquery.Selection) {
		row := extraRow{Text: node.Text()}
		if label := node.Find("div").ChildrenFiltered(".htlgb").ChildrenFiltered("div").First(); label.Length() > 0 {
			row.Label = label.Text()
			row.HasLabel = true
		}
		rows = append(rows, row)
	})

	info := classifyExtraInfo(rows)
	app.LastUpdated = info[slotLastUpdated]
	app.Size = info[slotSize]
	app.Downloads = info[slotDownloads]
	app.Version = info[slotVersion]
	app.SupportedOS = info[slotSupportedOS]
	app.ContentRating = info[slotContentRating]
}
