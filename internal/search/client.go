package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

const defaultBaseURL = "https://google.serper.dev"

// maxResults caps how many official links the pipeline keeps.
const maxResults = 2

// Client searches for a company's official career/internship pages via the
// Serper API. With an empty API key every search returns no links.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Serper API key not set, official site search will be skipped")
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		logger:     logger,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(apiKey, baseURL string, logger *zap.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type searchResponse struct {
	Organic []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic"`
}

// OfficialSites returns up to two official-looking career portal links for
// the given company name, or nil on any failure.
func (c *Client) OfficialSites(ctx context.Context, companyName string) ([]models.OfficialLink, error) {
	companyName = strings.TrimSpace(companyName)
	if c.apiKey == "" || len(companyName) < 2 {
		return nil, nil
	}

	query := fmt.Sprintf("Official %s careers internship portal", companyName)
	body, err := json.Marshal(searchRequest{Query: query, Num: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse serper response: %w", err)
	}

	links := make([]models.OfficialLink, 0, maxResults)
	for _, r := range parsed.Organic {
		links = append(links, models.OfficialLink{Title: r.Title, URL: r.Link})
		if len(links) == maxResults {
			break
		}
	}

	c.logger.Debug("Official site search complete",
		zap.String("company", companyName), zap.Int("results", len(links)))
	return links, nil
}
