package parser

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// redirectPrefix marks outbound links that the storefront wraps in its
// click-tracking redirector.
const redirectPrefix = "https://www.google.com/url?q="

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// Description is a rich-text block in both its markup and plain-text forms.
type Description struct {
	HTML string
	Text string
}

// CleanDescription unwraps redirector links in place, then returns the inner
// markup of n and its plain-text rendering. A nil node yields an empty
// Description.
func CleanDescription(n *html.Node) Description {
	if n == nil {
		return Description{}
	}

	sel := goquery.NewDocumentFromNode(n).Selection
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if target := UnwrapRedirect(href); target != href {
			a.SetAttr("href", target)
		}
	})

	markup, err := sel.Html()
	if err != nil {
		slog.Debug("render description markup", slog.Any("error", err))
	}

	return Description{
		HTML: markup,
		Text: strings.TrimSpace(renderText(n)),
	}
}

// UnwrapRedirect follows redirector links through their q parameter until
// the target is no longer a redirect.
func UnwrapRedirect(href string) string {
	for strings.HasPrefix(href, redirectPrefix) {
		u, err := url.Parse(href)
		if err != nil {
			return href
		}
		href = u.Query().Get("q")
	}
	return href
}

func renderText(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return whitespaceRun.ReplaceAllString(n.Data, " ")
	case html.ElementNode, html.DocumentNode:
	default:
		return ""
	}

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(renderText(c))
	}
	text := b.String()

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "div":
		text = "\n\n" + text + "\n\n"
	case "li":
		text = "- " + text + "\n"
	case "br":
		text += "\n"
	}

	return blankLines.ReplaceAllString(text, "\n\n")
}
