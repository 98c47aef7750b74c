package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const testBase = "https://play.google.com"

const currentAppPage = `<!doctype html>
<html><head>
<link rel="alternate" hreflang="x-default" href="https://play.google.com/store/apps/details?id=com.example.app">
</head><body>
<img itemprop="image" src="//lh3.googleusercontent.com/icon=s180">
<h1 itemprop="name"><span>Example App</span></h1>
<a class="hrTbp R8zArc" href="/store/apps/dev?id=42">Example Dev</a>
<a itemprop="genre" href="/store/apps/category/GAME_ARCADE">Arcade</a>
<a itemprop="genre" href="/store/apps/category/FAMILY">Family</a>
<span itemprop="offers" itemscope><meta itemprop="price" content="$6.99"></span>
<button data-screenshot-item-index="0"><img src="https://lh3.googleusercontent.com/shot1"></button>
<button data-screenshot-item-index="1"><img src="//lh3.googleusercontent.com/shot2"></button>
<div itemprop="description">
<content><div jsname="sngebd">Build <b>anything</b>.<br>Explore<p>Visit <a href="https://www.google.com/url?q=https://example.com&amp;sa=D&amp;usg=x">site</a></p></div></content>
<content><div>Bug fixes</div></content>
</div>
<div class="BHMmbe" aria-label="Rated 4.5 stars">4,5</div>
<span class="EymY4b"><span aria-label="1,234,567 ratings">1,234,567</span> total</span>
<div class="hAyfc"><div class="BgcNfc">Family</div><span class="htlgb"><div><img src="/family.png"><span>Family library</span></div></span></div>
<div class="hAyfc"><div class="BgcNfc">Updated</div><span class="htlgb">March 5, 2024</span></div>
<div class="hAyfc"><div class="BgcNfc">Size</div><span class="htlgb">25M</span></div>
<div class="hAyfc"><div class="BgcNfc">Installs</div><span class="htlgb">1,000,000+</span></div>
<div class="hAyfc"><div class="BgcNfc">Current Version</div><span class="htlgb">1.2.3</span></div>
<div class="hAyfc"><div class="BgcNfc">Requires Android</div><span class="htlgb">5.0 and up</span></div>
<div class="hAyfc"><div class="BgcNfc">Content Rating</div><span class="htlgb"><div class="IQ1z0d"><span class="htlgb"><div>Everyone 10+</div><div>Learn more</div></span></div></span></div>
<div class="hAyfc"><div class="BgcNfc">Offered By</div><span class="htlgb">2048 Labs</span></div>
<div class="MSLVtf NIc6yf"><button data-trailer-url="https://www.youtube.com/embed/abc?ps=play"></button><img src="//i.ytimg.com/vi/abc/hqdefault.jpg"></div>
</body></html>`

const currentFreeAppPage = `<html><body>
<h1 itemprop="name"><span>Free App</span></h1>
<span itemprop="offers"><meta itemprop="price" content="0"></span>
<div itemprop="description"><content><div>Just free.</div></content></div>
<div class="hAyfc"><span class="htlgb">10M</span></div>
</body></html>`

const legacyAppPage = `<html><head>
<link rel="alternate" href="https://play.google.com/store/apps/details?id=com.example.old">
</head><body>
<div itemscope itemtype="http://schema.org/MobileApplication">
<img class="cover-image" itemprop="image" src="//lh3.ggpht.com/cover=w300">
<div class="document-title" itemprop="name"><div>Old App</div></div>
<div itemprop="author" itemscope itemtype="http://schema.org/Organization">
<meta itemprop="url" content="/store/apps/developer?id=Old+Dev">
<a class="document-subtitle primary" href="/store/apps/developer?id=Old+Dev"><span itemprop="name">Old Dev</span></a>
</div>
<a class="document-subtitle category" href="/store/apps/category/TOOLS"><span itemprop="genre">Tools</span></a>
<span itemprop="offers" itemscope><meta itemprop="price" content="0"></span>
<img class="screenshot" itemprop="screenshot" src="//lh3.ggpht.com/s1">
<img class="screenshot" itemprop="screenshot" src="https://lh3.ggpht.com/s2">
<div itemprop="description"><div><p>First.</p><p>Second.</p></div></div>
<div itemprop="aggregateRating" itemscope>
<meta itemprop="ratingValue" content="4.2">
<meta itemprop="ratingCount" content="98765">
</div>
<div class="content" itemprop="datePublished">January 2, 2015</div>
<div class="content" itemprop="fileSize">3.1M</div>
<div class="content" itemprop="numDownloads">100,000 - 500,000</div>
<div class="content" itemprop="softwareVersion"> 2.0.1 </div>
<div class="content" itemprop="operatingSystems">4.0 and up</div>
<div class="content" itemprop="contentRating">Everyone</div>
<div class="recent-change">Fixed crash</div>
<div class="recent-change">Faster sync</div>
<span class="play-action-container" data-video-url="https://www.youtube.com/embed/old"></span>
<img class="video-image" src="//i.ytimg.com/vi/old/hq.jpg">
</div>
</body></html>`

func card(id, title, ratingStyle, price string) string {
	var b strings.Builder
	b.WriteString(`<div class="card no-rationale" data-docid="` + id + `">`)
	b.WriteString(`<a class="card-click-target" href="/store/apps/details?id=` + id + `"></a>`)
	b.WriteString(`<img class="cover-image" data-cover-large="//lh3.googleusercontent.com/` + id + `=w340">`)
	b.WriteString(`<a class="title" title="` + title + `" href="/store/apps/details?id=` + id + `">` + title + `</a>`)
	b.WriteString(`<a class="subtitle" title="Dev of ` + title + `" href="/store/apps/dev?id=1">Dev</a>`)
	if ratingStyle != "" {
		b.WriteString(`<div class="tiny-star"><div class="current-rating" style="` + ratingStyle + `"></div></div>`)
	}
	if price != "" {
		b.WriteString(`<span class="display-price">` + price + `</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func mustDocument(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func strValue(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
