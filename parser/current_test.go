package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCurrentStrategyApp(t *testing.T) {
	strategy, err := NewStrategy("current", testBase)
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}

	app, err := strategy.App(mustDocument(t, currentAppPage), "com.example.app")
	if err != nil {
		t.Fatalf("extract app: %v", err)
	}

	if app.ID != "com.example.app" {
		t.Fatalf("id = %q", app.ID)
	}
	if app.URL != "https://play.google.com/store/apps/details?id=com.example.app" {
		t.Fatalf("url = %q", app.URL)
	}
	if app.Image != "https://lh3.googleusercontent.com/icon=s180" {
		t.Fatalf("image = %q", app.Image)
	}
	if app.Title != "Example App" {
		t.Fatalf("title = %q", app.Title)
	}
	if strValue(app.Author) != "Example Dev" {
		t.Fatalf("author = %s", strValue(app.Author))
	}
	if strValue(app.AuthorLink) != "https://play.google.com/store/apps/dev?id=42" {
		t.Fatalf("author link = %s", strValue(app.AuthorLink))
	}
	if !reflect.DeepEqual(app.Categories, []string{"Arcade", "Family"}) {
		t.Fatalf("categories = %v", app.Categories)
	}
	if strValue(app.Price) != "$6.99" {
		t.Fatalf("price = %s", strValue(app.Price))
	}
	wantShots := []string{"https://lh3.googleusercontent.com/shot1", "https://lh3.googleusercontent.com/shot2"}
	if !reflect.DeepEqual(app.Screenshots, wantShots) {
		t.Fatalf("screenshots = %v", app.Screenshots)
	}
	if app.Description != "Build anything.\nExplore\n\nVisit site" {
		t.Fatalf("description = %q", app.Description)
	}
	if !strings.Contains(app.DescriptionHTML, `<a href="https://example.com">site</a>`) {
		t.Fatalf("description html = %q", app.DescriptionHTML)
	}
	if app.Rating != 4.5 {
		t.Fatalf("rating = %v", app.Rating)
	}
	if app.Votes != 1234567 {
		t.Fatalf("votes = %d", app.Votes)
	}

	extras := map[string]struct {
		got  *string
		want string
	}{
		"last_updated":   {app.LastUpdated, "March 5, 2024"},
		"size":           {app.Size, "25M"},
		"downloads":      {app.Downloads, "1,000,000+"},
		"version":        {app.Version, "1.2.3"},
		"supported_os":   {app.SupportedOS, "5.0 and up"},
		"content_rating": {app.ContentRating, "Everyone 10+"},
		"whatsnew":       {app.WhatsNew, "Bug fixes"},
		"video_link":     {app.VideoLink, "https://www.youtube.com/embed/abc?ps=play"},
		"video_image":    {app.VideoImage, "https://i.ytimg.com/vi/abc/hqdefault.jpg"},
	}
	for field, tt := range extras {
		if strValue(tt.got) != tt.want {
			t.Errorf("%s = %s, want %q", field, strValue(tt.got), tt.want)
		}
	}
}

func TestCurrentStrategyAppDefaults(t *testing.T) {
	strategy, _ := NewStrategy("current", testBase)

	app, err := strategy.App(mustDocument(t, currentFreeAppPage), "com.example.free")
	if err != nil {
		t.Fatalf("extract app: %v", err)
	}

	if !app.IsFree() {
		t.Fatalf("price %q should normalize to free", strValue(app.Price))
	}
	if app.Author != nil || app.AuthorLink != nil {
		t.Fatalf("author should be absent, got %s / %s", strValue(app.Author), strValue(app.AuthorLink))
	}
	if app.Rating != 0 || app.Votes != 0 {
		t.Fatalf("rating/votes = %v/%d, want zero values", app.Rating, app.Votes)
	}
	if strValue(app.Size) != "10M" {
		t.Fatalf("size = %s", strValue(app.Size))
	}
	if app.LastUpdated != nil || app.Version != nil || app.ContentRating != nil {
		t.Fatalf("unmatched extra info should stay nil")
	}
	if app.WhatsNew != nil {
		t.Fatalf("whatsnew = %s, want nil", strValue(app.WhatsNew))
	}
	if app.VideoLink != nil || app.VideoImage != nil {
		t.Fatalf("video should be absent")
	}
	if app.Categories == nil || len(app.Categories) != 0 {
		t.Fatalf("categories = %#v, want empty slice", app.Categories)
	}
	if app.Description != "Just free." {
		t.Fatalf("description = %q", app.Description)
	}
}

func TestCurrentStrategyAppMissingTitle(t *testing.T) {
	strategy, _ := NewStrategy("current", testBase)

	_, err := strategy.App(mustDocument(t, "<html><body><p>Not an app</p></body></html>"), "x")
	var markupErr *MarkupError
	if !errors.As(err, &markupErr) {
		t.Fatalf("expected MarkupError, got %v", err)
	}
	if markupErr.Missing != "title" {
		t.Fatalf("missing = %q, want title", markupErr.Missing)
	}
}

func TestNewStrategyUnknownLayout(t *testing.T) {
	if _, err := NewStrategy("2012", testBase); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
	s, err := NewStrategy("", testBase)
	if err != nil || s.Name() != "current" {
		t.Fatalf("empty layout should default to current, got %v, %v", s, err)
	}
}
