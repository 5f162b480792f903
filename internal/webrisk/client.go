package webrisk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// Threat types checked against the Web Risk API.
var threatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"}

const defaultBaseURL = "https://webrisk.googleapis.com/v1"

// Client is a client for the Google Web Risk uris:search API.
// With an empty API key the client is not configured and every check
// reports the URL as safe.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Web Risk API key not set, URL safety checks will be skipped")
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 6 * time.Second},
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
	URI         string   `json:"uri"`
	ThreatTypes []string `json:"threatTypes"`
}

type searchResponse struct {
	Threat struct {
		ThreatTypes []string `json:"threatTypes"`
	} `json:"threat"`
}

// Check looks up a single URL against known threat lists. It fails open:
// an unreachable API, an HTTP 400 (malformed URL) or any decode error all
// report the URL as safe rather than blocking the pipeline.
func (c *Client) Check(ctx context.Context, url string) (models.URLCheck, error) {
	check := models.URLCheck{URL: url}
	if c.apiKey == "" || url == "" {
		return check, nil
	}

	body, err := json.Marshal(searchRequest{URI: url, ThreatTypes: threatTypes})
	if err != nil {
		return check, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/uris:search?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return check, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Web Risk check failed, failing open", zap.String("url", url), zap.Error(err))
		return check, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 400 means an invalid URL format, anything else is an API fault.
		// Neither is evidence of a threat.
		c.logger.Error("Web Risk returned non-OK status, failing open",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return check, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read Web Risk response, failing open", zap.Error(err))
		return check, nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.logger.Error("Failed to parse Web Risk response, failing open", zap.Error(err))
		return check, nil
	}

	if len(parsed.Threat.ThreatTypes) > 0 {
		check.Unsafe = true
		check.ThreatType = parsed.Threat.ThreatTypes[0]
		c.logger.Warn("URL flagged by Web Risk",
			zap.String("url", url), zap.String("threat_type", check.ThreatType))
		return check, nil
	}

	c.logger.Debug("URL is clean", zap.String("url", url))
	return check, nil
}
