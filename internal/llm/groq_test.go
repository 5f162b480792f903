package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

func groqServer(t *testing.T, handler func(req groqRequest) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		var req groqRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		content, status := handler(req)
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error": "boom"}`)
			return
		}
		quoted, _ := json.Marshal(content)
		fmt.Fprintf(w, `{"id":"test","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, quoted)
	}))
}

func newTestGroqClient(t *testing.T, baseURL string) *GroqClient {
	t.Helper()
	client, err := NewGroqClient(GroqConfig{APIKey: "test-key", BaseURL: baseURL}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewGroqClient: %v", err)
	}
	return client
}

func TestGroqClassify(t *testing.T) {
	srv := groqServer(t, func(req groqRequest) (string, int) {
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("classify must request a json_object response")
		}
		if req.Temperature != 0 {
			t.Errorf("temperature = %v, want 0", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("want system+user messages, got %d", len(req.Messages))
		}
		return `{"scam_score": 90, "genuine_score": 5, "risk_level": "Critical", "confidence": "HIGH", "ai_evidence": "Upfront fee.", "genuine_evidence": "None.", "protective_guidance": []}`, http.StatusOK
	})
	defer srv.Close()

	client := newTestGroqClient(t, srv.URL)
	verdict, err := client.Classify(context.Background(), models.ClassifyInput{MessageText: "pay fee now"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if verdict.ScamScore != 90 || verdict.RiskLevel != models.RiskCritical {
		t.Errorf("verdict = %d/%s", verdict.ScamScore, verdict.RiskLevel)
	}
}

func TestGroqExtractCompanyName(t *testing.T) {
	srv := groqServer(t, func(req groqRequest) (string, int) {
		if req.MaxTokens != 30 {
			t.Errorf("max_tokens = %d, want 30", req.MaxTokens)
		}
		return `"TCS"`, http.StatusOK
	})
	defer srv.Close()

	client := newTestGroqClient(t, srv.URL)
	name, err := client.ExtractCompanyName(context.Background(), "TCS internship offer")
	if err != nil {
		t.Fatalf("ExtractCompanyName: %v", err)
	}
	if name != "TCS" {
		t.Errorf("name = %q, want TCS", name)
	}
}

func TestGroqNon200IsAnError(t *testing.T) {
	srv := groqServer(t, func(groqRequest) (string, int) {
		return "", http.StatusTooManyRequests
	})
	defer srv.Close()

	client := newTestGroqClient(t, srv.URL)
	if _, err := client.Classify(context.Background(), models.ClassifyInput{MessageText: "x"}); err == nil {
		t.Fatal("want error on 429 response")
	}
}

func TestGroqRequiresAPIKey(t *testing.T) {
	if _, err := NewGroqClient(GroqConfig{}, zap.NewNop()); err == nil {
		t.Fatal("want error when API key is empty")
	}
}
