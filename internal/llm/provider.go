package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// Provider is the interface any LLM backend must satisfy. The pipeline
// depends on it abstractly so tests can substitute fakes.
type Provider interface {
	// ExtractCompanyName returns the organization named in the message,
	// or "" when none is mentioned.
	ExtractCompanyName(ctx context.Context, text string) (string, error)
	// Classify produces the dual-score verdict for a message. A malformed
	// model response surfaces as an error, never a partial verdict.
	Classify(ctx context.Context, in models.ClassifyInput) (*models.AIVerdict, error)
	Name() string
	Close() error
}

// verdictJSON is the exact JSON schema the classify prompt demands.
type verdictJSON struct {
	ScamScore          float64  `json:"scam_score"`
	GenuineScore       float64  `json:"genuine_score"`
	RiskLevel          string   `json:"risk_level"`
	Confidence         string   `json:"confidence"`
	AIEvidence         string   `json:"ai_evidence"`
	GenuineEvidence    string   `json:"genuine_evidence"`
	ProtectiveGuidance []string `json:"protective_guidance"`
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// parseVerdict decodes and normalizes a model response into an AIVerdict.
func parseVerdict(raw string) (*models.AIVerdict, error) {
	clean := stripFences(raw)

	var parsed verdictJSON
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("malformed classifier response: %w", err)
	}

	verdict := &models.AIVerdict{
		ScamScore:           clampScore(parsed.ScamScore),
		GenuineScore:        clampScore(parsed.GenuineScore),
		EvidenceText:        parsed.AIEvidence,
		GenuineEvidenceText: parsed.GenuineEvidence,
		ProtectiveGuidance:  parsed.ProtectiveGuidance,
	}
	if verdict.EvidenceText == "" {
		verdict.EvidenceText = "No technical evidence provided."
	}
	if verdict.GenuineEvidenceText == "" {
		verdict.GenuineEvidenceText = "No genuine indicators found."
	}
	if verdict.ProtectiveGuidance == nil {
		verdict.ProtectiveGuidance = []string{}
	}

	switch models.RiskLevel(parsed.RiskLevel) {
	case models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical:
		verdict.RiskLevel = models.RiskLevel(parsed.RiskLevel)
	default:
		verdict.RiskLevel = models.RiskMedium
	}

	switch models.Confidence(strings.ToUpper(parsed.Confidence)) {
	case models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow:
		verdict.Confidence = models.Confidence(strings.ToUpper(parsed.Confidence))
	default:
		verdict.Confidence = models.ConfidenceLow
	}

	return verdict, nil
}

// parseCompanyName normalizes the extraction response. The prompt asks the
// model to answer UNKNOWN when no organization is mentioned.
func parseCompanyName(raw string) string {
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
	if name == "" || strings.EqualFold(name, "UNKNOWN") {
		return ""
	}
	return name
}
