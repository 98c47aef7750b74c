package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-play/config"
	"github.com/aluiziolira/go-scrape-play/parser"
)

const (
	ctxStart    = "start"
	ctxResponse = "response"
)

// Scraper fetches storefront pages and extracts records from them. A Scraper
// issues one request at a time and is not safe for concurrent use; run one
// instance per goroutine instead.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	limiter   *rateLimiter
	strategy  parser.Strategy
	Metrics   *Metrics

	lang    string
	country string

	requestCount int64
	errorCounts  map[string]int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	strategy, err := parser.NewStrategy(cfg.Layout, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("select layout: %w", err)
	}

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(0),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	})

	s := &Scraper{
		cfg:       cfg,
		collector: collector,
		limiter:   newRateLimiter(cfg.Delay),
		strategy:  strategy,
		Metrics:   NewMetrics(),
		lang:      cfg.Lang,
		country:   cfg.Country,

		errorCounts: make(map[string]int),
	}
	s.configureHandlers()
	return s, nil
}

// SetDelay changes the minimum delay between requests. Zero disables it.
func (s *Scraper) SetDelay(d time.Duration) { s.limiter.SetDelay(d) }

// Delay returns the minimum delay between requests.
func (s *Scraper) Delay() time.Duration { return s.limiter.Delay() }

// SetDefaultLang sets the language used when a call does not name one.
func (s *Scraper) SetDefaultLang(lang string) { s.lang = lang }

// DefaultLang returns the default language.
func (s *Scraper) DefaultLang() string { return s.lang }

// SetDefaultCountry sets the country used when a call does not name one.
func (s *Scraper) SetDefaultCountry(country string) { s.country = country }

// DefaultCountry returns the default country.
func (s *Scraper) DefaultCountry() string { return s.country }

// Layout returns the name of the markup layout the scraper extracts.
func (s *Scraper) Layout() string { return s.strategy.Name() }

// RequestCount returns the number of requests issued so far.
func (s *Scraper) RequestCount() int { return int(atomic.LoadInt64(&s.requestCount)) }

// ErrorCounts returns the number of failed calls so far, keyed by error type.
func (s *Scraper) ErrorCounts() map[string]int {
	counts := make(map[string]int, len(s.errorCounts))
	for label, n := range s.errorCounts {
		counts[label] = n
	}
	return counts
}

func (s *Scraper) configureHandlers() {
	s.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put(ctxStart, time.Now())
		atomic.AddInt64(&s.requestCount, 1)
		slog.Debug("storefront request", slog.String("url", r.URL.String()))
	})

	s.collector.OnResponse(func(r *colly.Response) {
		if start, ok := r.Ctx.GetAny(ctxStart).(time.Time); ok {
			s.Metrics.ObserveDuration(time.Since(start))
		}
		r.Ctx.Put(ctxResponse, r)
	})

	s.collector.OnError(func(r *colly.Response, err error) {
		target := ""
		if r != nil && r.Request != nil && r.Request.URL != nil {
			target = r.Request.URL.String()
		}
		slog.Error("request error",
			slog.String("url", target),
			slog.Any("error", err),
		)
	})
}

// fetch issues one throttled GET for path and params and returns the parsed
// page. The delay clock starts before the request, so failures are throttled
// as well.
func (s *Scraper) fetch(path []string, params Params) (*goquery.Document, error) {
	s.Metrics.ObserveThrottle(s.limiter.Wait())

	target := BuildURL(s.cfg.BaseURL, path, params)
	ctx := colly.NewContext()
	if err := s.collector.Request(http.MethodGet, target, nil, ctx, nil); err != nil {
		return nil, s.failRequest(fmt.Errorf("fetch %s: %w", target, classifyError(err, 0, target)))
	}

	resp, ok := ctx.GetAny(ctxResponse).(*colly.Response)
	if !ok {
		return nil, s.failRequest(fmt.Errorf("fetch %s: no response", target))
	}
	if err := classifyError(nil, resp.StatusCode, target); err != nil {
		slog.Error("storefront request failed",
			slog.String("url", target),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)
		return nil, s.failRequest(err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(Sanitize(resp.Body)))
	if err != nil {
		return nil, s.failRequest(fmt.Errorf("parse %s: %w", target, err))
	}

	s.Metrics.IncRequest("ok")
	slog.Debug("storefront response",
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(resp.Body)),
	)
	return doc, nil
}

// fail records err in the metrics and returns it unchanged.
func (s *Scraper) fail(err error) error {
	label := errorTypeLabel(err)
	s.errorCounts[label]++
	s.Metrics.IncError(label)
	return err
}

func (s *Scraper) failRequest(err error) error {
	s.Metrics.IncRequest("error")
	return s.fail(err)
}

func classifyError(err error, statusCode int, target string) error {
	if err == nil && (statusCode == 0 || statusCode == http.StatusOK) {
		return nil
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout{Err: err}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout{Err: err}
		}
		var opErr *net.OpError
		if errors.As(err, &opErr) {
			return ErrConnection{Err: err}
		}
		return err
	}

	if statusCode == http.StatusNotFound {
		return ErrNotFound{Err: fmt.Errorf("%s: requested resource not found", target)}
	}
	return ErrRequestFailed{Status: statusCode, URL: target}
}
