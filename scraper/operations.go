package scraper

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-play/models"
	"github.com/aluiziolira/go-scrape-play/parser"
)

const (
	listPageSize = 60
	maxListStart = 500
	maxListNum   = 120
)

// Price filters accepted by Search.
type PriceFilter string

const (
	PriceAll  PriceFilter = "all"
	PriceFree PriceFilter = "free"
	PricePaid PriceFilter = "paid"
)

// Rating filters accepted by Search.
type RatingFilter string

const (
	RatingAll      RatingFilter = "all"
	RatingFourPlus RatingFilter = "4+"
)

var (
	priceParams = map[PriceFilter]string{
		"":        "",
		PriceAll:  "",
		PriceFree: "1",
		PricePaid: "2",
	}
	ratingParams = map[RatingFilter]string{
		"":             "",
		RatingAll:      "",
		RatingFourPlus: "1",
	}
)

var collections = []string{
	"topselling_free",
	"topselling_paid",
	"topselling_new_free",
	"topselling_new_paid",
	"topgrossing",
	"movers_shakers",
}

// Collections returns the fixed set of collection identifiers, in order.
func Collections() []string {
	return append([]string(nil), collections...)
}

// Locale selects the storefront language and country for one call. Empty
// fields fall back to the scraper defaults.
type Locale struct {
	Lang    string
	Country string
}

func (s *Scraper) locale(loc Locale) (string, string) {
	lang, country := loc.Lang, loc.Country
	if lang == "" {
		lang = s.lang
	}
	if country == "" {
		country = s.country
	}
	return lang, country
}

// ParseBound converts a textual start or num argument to an integer. Range
// checks happen in the operation that consumes it.
func ParseBound(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidArgument{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}

func checkBound(name string, value, max int) error {
	if value < 0 || value > max {
		return ErrOutOfRange{Field: name, Value: value, Min: 0, Max: max}
	}
	return nil
}

// App fetches and extracts the detail page of one app.
func (s *Scraper) App(id string, loc Locale) (*models.AppRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, s.fail(ErrInvalidArgument{Field: "id", Reason: "must not be empty"})
	}
	lang, country := s.locale(loc)

	doc, err := s.fetch([]string{"apps", "details"}, Params{
		{"id", id},
		{"hl", lang},
		{"gl", country},
	})
	if err != nil {
		return nil, err
	}

	app, err := s.strategy.App(doc, id)
	if err != nil {
		return nil, s.fail(fmt.Errorf("app %s: %w", id, err))
	}
	s.Metrics.AddRecords("app", 1)
	return app, nil
}

// Apps fetches every distinct id in ids, in first-seen order. The first
// failure aborts the call.
func (s *Scraper) Apps(ids []string, loc Locale) ([]*models.AppRecord, error) {
	seen := make(map[string]struct{}, len(ids))
	apps := make([]*models.AppRecord, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		app, err := s.App(id, loc)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// ListChunk fetches one page of a collection. category may be empty for the
// store-wide collection.
func (s *Scraper) ListChunk(collection, category string, start, num int, loc Locale) ([]*models.ListingEntry, error) {
	if err := checkBound("start", start, maxListStart); err != nil {
		return nil, s.fail(err)
	}
	if err := checkBound("num", num, maxListNum); err != nil {
		return nil, s.fail(err)
	}
	if collection == "" {
		return nil, s.fail(ErrInvalidArgument{Field: "collection", Reason: "must not be empty"})
	}
	lang, country := s.locale(loc)

	path := []string{"apps"}
	if category != "" {
		path = append(path, "category", category)
	}
	path = append(path, "collection", collection)

	doc, err := s.fetch(path, Params{
		{"hl", lang},
		{"gl", country},
		{"start", strconv.Itoa(start)},
		{"num", strconv.Itoa(num)},
	})
	if err != nil {
		return nil, err
	}

	entries, err := s.strategy.Listing(doc)
	if err != nil {
		return nil, s.fail(fmt.Errorf("list %s: %w", collection, err))
	}
	s.Metrics.AddRecords("listing", len(entries))
	return entries, nil
}

// List pages through a whole collection until a short page or the start
// bound ends it.
func (s *Scraper) List(collection, category string, loc Locale) ([]*models.ListingEntry, error) {
	entries := []*models.ListingEntry{}
	for start := 0; start <= maxListStart; start += listPageSize {
		chunk, err := s.ListChunk(collection, category, start, listPageSize, loc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, chunk...)
		if len(chunk) < listPageSize {
			break
		}
	}
	slog.Debug("collection listed",
		slog.String("collection", collection),
		slog.String("category", category),
		slog.Int("entries", len(entries)),
	)
	return entries, nil
}

// DetailListChunk is ListChunk followed by App for every listed id.
func (s *Scraper) DetailListChunk(collection, category string, start, num int, loc Locale) ([]*models.AppRecord, error) {
	entries, err := s.ListChunk(collection, category, start, num, loc)
	if err != nil {
		return nil, err
	}
	return s.Apps(models.ListingIDs(entries), loc)
}

// DetailList is List followed by App for every listed id.
func (s *Scraper) DetailList(collection, category string, loc Locale) ([]*models.AppRecord, error) {
	entries, err := s.List(collection, category, loc)
	if err != nil {
		return nil, err
	}
	return s.Apps(models.ListingIDs(entries), loc)
}

// Search runs a store search and follows continuation tokens until a page
// carries none.
func (s *Scraper) Search(query string, price PriceFilter, rating RatingFilter, loc Locale) ([]*models.ListingEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, s.fail(ErrInvalidArgument{Field: "query", Reason: "must not be empty"})
	}
	priceValue, ok := priceParams[price]
	if !ok {
		return nil, s.fail(ErrInvalidArgument{Field: "price", Reason: "must be one of all, free, paid"})
	}
	ratingValue, ok := ratingParams[rating]
	if !ok {
		return nil, s.fail(ErrInvalidArgument{Field: "rating", Reason: "must be one of all, 4+"})
	}
	lang, country := s.locale(loc)

	params := Params{
		{"q", query},
		{"c", "apps"},
		{"hl", lang},
		{"gl", country},
	}
	if priceValue != "" {
		params = params.Set("price", priceValue)
	}
	if ratingValue != "" {
		params = params.Set("rating", ratingValue)
	}

	entries := []*models.ListingEntry{}
	previous := ""
	for page := 1; ; page++ {
		doc, err := s.fetch([]string{"search"}, params)
		if err != nil {
			return nil, err
		}
		chunk, err := s.strategy.Listing(doc)
		if err != nil {
			return nil, s.fail(fmt.Errorf("search %q page %d: %w", query, page, err))
		}
		entries = append(entries, chunk...)
		s.Metrics.AddRecords("listing", len(chunk))

		token := parser.ContinuationToken(doc)
		if token == "" {
			break
		}
		if token == previous {
			slog.Warn("search token repeated, stopping",
				slog.String("query", query),
				slog.Int("page", page),
			)
			break
		}
		previous = token
		params = params.Set("pagTok", token)
	}
	return entries, nil
}

// DetailSearch is Search followed by App for every result id.
func (s *Scraper) DetailSearch(query string, price PriceFilter, rating RatingFilter, loc Locale) ([]*models.AppRecord, error) {
	entries, err := s.Search(query, price, rating, loc)
	if err != nil {
		return nil, err
	}
	return s.Apps(models.ListingIDs(entries), loc)
}

// Categories returns the category identifiers linked from the apps landing
// page. The landing page is always read in English for the US store.
func (s *Scraper) Categories() ([]string, error) {
	doc, err := s.fetch([]string{"apps"}, Params{
		{"hl", "en"},
		{"gl", "us"},
	})
	if err != nil {
		return nil, err
	}
	return parser.Categories(doc), nil
}
