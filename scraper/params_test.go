package scraper

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		path   []string
		params Params
		want   string
	}{
		{
			name:   "category collection",
			path:   []string{"apps", "category", "GAME_ARCADE", "collection", "topselling_paid"},
			params: Params{{"hl", "en"}, {"gl", "us"}, {"start", "0"}, {"num", "2"}},
			want:   "https://play.google.com/store/apps/category/GAME_ARCADE/collection/topselling_paid?hl=en&gl=us&start=0&num=2",
		},
		{
			name:   "details",
			path:   []string{"apps", "details"},
			params: Params{{"id", "com.mojang.minecraftpe"}, {"hl", "en"}, {"gl", "us"}},
			want:   "https://play.google.com/store/apps/details?id=com.mojang.minecraftpe&hl=en&gl=us",
		},
		{
			name:   "search with filters and token",
			path:   []string{"search"},
			params: Params{{"q", "unicorns"}, {"c", "apps"}, {"hl", "en"}, {"gl", "us"}, {"price", "1"}, {"rating", "1"}, {"pagTok", "GAEiAggU:S:ANO1ljLtUJw"}},
			want:   "https://play.google.com/store/search?q=unicorns&c=apps&hl=en&gl=us&price=1&rating=1&pagTok=GAEiAggU%3AS%3AANO1ljLtUJw",
		},
		{
			name: "no params",
			path: []string{"apps"},
			want: "https://play.google.com/store/apps",
		},
		{
			name:   "escaped query",
			path:   []string{"search"},
			params: Params{{"q", "a&b c"}},
			want:   "https://play.google.com/store/search?q=a%26b+c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL("https://play.google.com/", tt.path, tt.params); got != tt.want {
				t.Fatalf("BuildURL = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParamsSetGetDel(t *testing.T) {
	p := Params{{"q", "x"}, {"hl", "en"}}
	p = p.Set("pagTok", "one")
	p = p.Set("pagTok", "two")
	if len(p) != 3 {
		t.Fatalf("len = %d, want 3", len(p))
	}
	if v, ok := p.Get("pagTok"); !ok || v != "two" {
		t.Fatalf("pagTok = %q, %v", v, ok)
	}
	if got := p.Encode(); got != "q=x&hl=en&pagTok=two" {
		t.Fatalf("encode = %s", got)
	}

	p = p.Del("pagTok")
	if _, ok := p.Get("pagTok"); ok {
		t.Fatalf("pagTok should be removed")
	}
	if got := p.Encode(); got != "q=x&hl=en" {
		t.Fatalf("encode = %s", got)
	}
}
