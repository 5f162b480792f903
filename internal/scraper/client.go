package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.firecrawl.dev"

// maxContentLen caps scraped page text before it reaches the classifier.
const maxContentLen = 3000

// NoLinkSentinel is returned by the aggregator when a message contains no URL.
const NoLinkSentinel = "No link found in message"

// Client scrapes the page behind a message URL. It prefers the Firecrawl
// API and falls back to a direct fetch with HTML text extraction when no
// Firecrawl key is configured. Scrape never fails: every error path yields
// a descriptive sentinel string the classifier can recognize.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Firecrawl API key not set, falling back to direct page fetch")
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(apiKey, baseURL string, logger *zap.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

// truncate caps s at max bytes without splitting a multi-byte rune; scam
// pages are full of rupee signs and emoji.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// IsContent reports whether scraped text is real page content rather than
// one of the sentinel strings.
func IsContent(text string) bool {
	return text != "" &&
		!strings.HasPrefix(text, "No link found") &&
		!strings.HasPrefix(text, "Scraped URL")
}

// Scrape fetches readable text for the given URL.
func (c *Client) Scrape(ctx context.Context, url string) string {
	if url == "" {
		return NoLinkSentinel
	}

	var content string
	var err error
	if c.apiKey != "" {
		content, err = c.scrapeFirecrawl(ctx, url)
	} else {
		content, err = c.scrapeDirect(ctx, url)
	}
	if err != nil {
		c.logger.Error("Scrape failed", zap.String("url", url), zap.Error(err))
		return fmt.Sprintf("Scraped URL: %s - scrape failed (%s)", url, truncate(err.Error(), 80))
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Sprintf("Scraped URL: %s - no readable content found", url)
	}
	content = truncate(content, maxContentLen)
	c.logger.Debug("Scraped page", zap.String("url", url), zap.Int("chars", len(content)))
	return content
}

type firecrawlRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

func (c *Client) scrapeFirecrawl(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(firecrawlRequest{URL: url, Formats: []string{"markdown"}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("firecrawl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("firecrawl returned status %d", resp.StatusCode)
	}

	var parsed firecrawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse firecrawl response: %w", err)
	}
	if !parsed.Success {
		return "", fmt.Errorf("firecrawl reported failure")
	}
	return parsed.Data.Markdown, nil
}

// scrapeDirect fetches the page and extracts visible text from the body.
func (c *Client) scrapeDirect(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	var parts []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return text, nil
}
