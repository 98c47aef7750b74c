package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Search pages embed the next-page token in script data as
	// \x22GAE...\x22 with "=" written as \\u003d.
	continuationToken = regexp.MustCompile(`\\x22(GAE.+?)\\x22`)
	escapedEquals     = regexp.MustCompile(`\\\\u003d`)
)

// ContinuationToken returns the search continuation token embedded in the
// page scripts, or "" when the page is the last one.
func ContinuationToken(doc *goquery.Document) string {
	var token string
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		m := continuationToken.FindStringSubmatch(script.Text())
		if m == nil {
			return true
		}
		token = escapedEquals.ReplaceAllString(m[1], "=")
		return false
	})
	return token
}

// Categories returns the category identifiers linked from the storefront
// navigation, de-duplicated in document order.
func Categories(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	categories := []string{}
	doc.Find(".child-submenu-link").Each(func(_ int, link *goquery.Selection) {
		href := link.AttrOr("href", "")
		if !strings.HasPrefix(href, "/store/apps") {
			return
		}
		if i := strings.IndexByte(href, '?'); i >= 0 {
			href = href[:i]
		}
		category := href[strings.LastIndexByte(href, '/')+1:]
		if _, ok := seen[category]; ok {
			return
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	})
	return categories
}
