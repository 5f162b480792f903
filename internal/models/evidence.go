package models

// URLCheck is the result of the URL-safety provider.
type URLCheck struct {
	URL        string
	Unsafe     bool
	ThreatType string
}

// OfficialLink is one official-site search result.
type OfficialLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AIVerdict is the classifier's output for one message.
type AIVerdict struct {
	ScamScore           int
	GenuineScore        int
	Confidence          Confidence
	RiskLevel           RiskLevel
	EvidenceText        string
	GenuineEvidenceText string
	ProtectiveGuidance  []string
}

// ClassifyInput carries everything the classifier sees for one message.
type ClassifyInput struct {
	MessageText     string
	ScrapedPageText string
	OfficialLinks   []OfficialLink
	PersonalDetails PersonalDetails
}

// EvidenceBundle is the merged output of all signal providers for one
// pipeline run. It is owned by that run and discarded once folded into a
// VerificationResult.
type EvidenceBundle struct {
	WebRiskVerdict  URLCheck
	CompanyName     string
	OfficialLinks   []OfficialLink
	ScrapedPageText string
	AIVerdict       AIVerdict
}
