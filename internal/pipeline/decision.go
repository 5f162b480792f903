package pipeline

import (
	"fmt"
	"strings"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// Scam-score thresholds for the automatic verdict.
const (
	scamAutoConfirm = 80
	scamAlertBand   = 60
)

// Decide turns the dual scores into a verdict. The second return value
// reports whether the score landed in the borderline band that requires an
// admin alert. A genuine score must be strictly greater than the scam score
// to dominate; equality falls through to the scam thresholds.
func Decide(scamScore, genuineScore int) (models.Status, bool) {
	switch {
	case genuineScore > scamScore:
		return models.StatusGenuine, false
	case scamScore >= scamAutoConfirm:
		return models.StatusScam, false
	case scamScore >= scamAlertBand:
		return models.StatusInReview, true
	default:
		return models.StatusInReview, false
	}
}

// ComposeEvidence builds the single persisted forensic record: the winning
// side's evidence first, then risk level, both scores, guidance tips and
// the investigation trail, always in that order.
func ComposeEvidence(verdict *models.AIVerdict, status models.Status, path []string) string {
	var b strings.Builder

	if status == models.StatusGenuine {
		b.WriteString("GENUINE: ")
		b.WriteString(verdict.GenuineEvidenceText)
	} else {
		b.WriteString(verdict.EvidenceText)
	}

	fmt.Fprintf(&b, " | Risk Level: %s", verdict.RiskLevel)
	fmt.Fprintf(&b, " | Scam Score: %d/100", verdict.ScamScore)
	fmt.Fprintf(&b, " | Genuine Score: %d/100", verdict.GenuineScore)
	if len(verdict.ProtectiveGuidance) > 0 {
		fmt.Fprintf(&b, " | Guidance: %s", strings.Join(verdict.ProtectiveGuidance, "; "))
	}
	fmt.Fprintf(&b, " | Investigation: %s", strings.Join(path, " -> "))

	return b.String()
}
