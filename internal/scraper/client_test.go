package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestScrape_FirecrawlMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer fc-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		fmt.Fprint(w, `{"success":true,"data":{"markdown":"# Elite Hiring Drive\nPay the registration fee now."}}`)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("fc-key", srv.URL, zap.NewNop())
	text := client.Scrape(context.Background(), "https://scam.example/apply")
	if !strings.Contains(text, "Elite Hiring Drive") {
		t.Errorf("text = %q, want the markdown content", text)
	}
	if !IsContent(text) {
		t.Error("real markdown must count as content")
	}
}

func TestScrape_DirectFetchStripsMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><style>body{color:red}</style></head>
			<body><script>alert(1)</script><h1>Apply  now</h1>
			<p>Limited   seats available.</p></body></html>`)
	}))
	defer srv.Close()

	client := NewClient("", zap.NewNop())
	text := client.Scrape(context.Background(), srv.URL)
	if strings.Contains(text, "alert(1)") || strings.Contains(text, "color:red") {
		t.Errorf("script/style text leaked into %q", text)
	}
	if !strings.Contains(text, "Apply now") || !strings.Contains(text, "Limited seats available.") {
		t.Errorf("text = %q, want whitespace-collapsed visible text", text)
	}
}

func TestScrape_TruncatesLongPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>%s</body></html>", strings.Repeat("scam ", 2000))
	}))
	defer srv.Close()

	client := NewClient("", zap.NewNop())
	text := client.Scrape(context.Background(), srv.URL)
	if len(text) > maxContentLen {
		t.Errorf("len = %d, want at most %d", len(text), maxContentLen)
	}
}

func TestScrape_TruncationKeepsValidUTF8(t *testing.T) {
	// One ASCII byte shifts the rupee runes off the cap boundary, so a
	// naive byte slice would split a rune.
	page := "a" + strings.Repeat("₹", 1500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>%s</body></html>", page)
	}))
	defer srv.Close()

	client := NewClient("", zap.NewNop())
	text := client.Scrape(context.Background(), srv.URL)
	if len(text) > maxContentLen {
		t.Errorf("len = %d, want at most %d", len(text), maxContentLen)
	}
	if !utf8.ValidString(text) {
		t.Error("truncated content is not valid UTF-8")
	}
}

func TestScrape_ErrorYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("", zap.NewNop())
	text := client.Scrape(context.Background(), srv.URL)
	if !strings.HasPrefix(text, "Scraped URL: ") {
		t.Errorf("text = %q, want a sentinel, never an error", text)
	}
	if IsContent(text) {
		t.Error("sentinel must not count as content")
	}
}

func TestScrape_EmptyURL(t *testing.T) {
	client := NewClient("", zap.NewNop())
	if got := client.Scrape(context.Background(), ""); got != NoLinkSentinel {
		t.Errorf("Scrape(\"\") = %q, want the no-link sentinel", got)
	}
}

func TestIsContent(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Real page text", true},
		{"", false},
		{NoLinkSentinel, false},
		{"Scraped URL: http://x - scrape failed (timeout)", false},
	}
	for _, c := range cases {
		if got := IsContent(c.text); got != c.want {
			t.Errorf("IsContent(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
