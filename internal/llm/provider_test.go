package llm

import (
	"testing"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

func TestParseVerdict_FencedJSON(t *testing.T) {
	raw := "```json\n{\"scam_score\": 85, \"genuine_score\": 10, \"risk_level\": \"Critical\", \"confidence\": \"HIGH\", \"ai_evidence\": \"Fee demanded upfront.\", \"genuine_evidence\": \"Company exists.\", \"protective_guidance\": [\"Do not pay\"]}\n```"

	verdict, err := parseVerdict(raw)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if verdict.ScamScore != 85 || verdict.GenuineScore != 10 {
		t.Errorf("scores = %d/%d, want 85/10", verdict.ScamScore, verdict.GenuineScore)
	}
	if verdict.RiskLevel != models.RiskCritical {
		t.Errorf("risk = %s, want Critical", verdict.RiskLevel)
	}
	if verdict.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %s, want HIGH", verdict.Confidence)
	}
	if len(verdict.ProtectiveGuidance) != 1 || verdict.ProtectiveGuidance[0] != "Do not pay" {
		t.Errorf("guidance = %v", verdict.ProtectiveGuidance)
	}
}

func TestParseVerdict_ClampsOutOfRangeScores(t *testing.T) {
	verdict, err := parseVerdict(`{"scam_score": 150, "genuine_score": -20, "risk_level": "High", "confidence": "MEDIUM"}`)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if verdict.ScamScore != 100 {
		t.Errorf("scam = %d, want clamped to 100", verdict.ScamScore)
	}
	if verdict.GenuineScore != 0 {
		t.Errorf("genuine = %d, want clamped to 0", verdict.GenuineScore)
	}
}

func TestParseVerdict_DefaultsForMissingFields(t *testing.T) {
	verdict, err := parseVerdict(`{"scam_score": 40, "genuine_score": 10}`)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if verdict.EvidenceText != "No technical evidence provided." {
		t.Errorf("evidence default = %q", verdict.EvidenceText)
	}
	if verdict.GenuineEvidenceText != "No genuine indicators found." {
		t.Errorf("genuine evidence default = %q", verdict.GenuineEvidenceText)
	}
	if verdict.RiskLevel != models.RiskMedium {
		t.Errorf("risk default = %s, want Medium", verdict.RiskLevel)
	}
	if verdict.Confidence != models.ConfidenceLow {
		t.Errorf("confidence default = %s, want LOW", verdict.Confidence)
	}
	if verdict.ProtectiveGuidance == nil {
		t.Error("guidance must be an empty slice, not nil")
	}
}

func TestParseVerdict_NormalizesConfidenceCase(t *testing.T) {
	verdict, err := parseVerdict(`{"scam_score": 10, "genuine_score": 80, "risk_level": "Low", "confidence": "high"}`)
	if err != nil {
		t.Fatalf("parseVerdict: %v", err)
	}
	if verdict.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %s, want HIGH", verdict.Confidence)
	}
}

func TestParseVerdict_MalformedIsAnError(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{\"scam_score\": "} {
		if _, err := parseVerdict(raw); err == nil {
			t.Errorf("parseVerdict(%q) = nil error, want malformed-response error", raw)
		}
	}
}

func TestParseCompanyName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"TCS", "TCS"},
		{`"Infosys"`, "Infosys"},
		{"  Wipro \n", "Wipro"},
		{"UNKNOWN", ""},
		{"unknown", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := parseCompanyName(c.raw); got != c.want {
			t.Errorf("parseCompanyName(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}
