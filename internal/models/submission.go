package models

import (
	"fmt"
	"time"
)

// Status is the verification verdict of a submission.
type Status string

const (
	StatusInReview Status = "InReview"
	StatusScam     Status = "Scam"
	StatusGenuine  Status = "Genuine"
)

// ParseStatus validates a status value received at an API boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInReview, StatusScam, StatusGenuine:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

// IsTerminal reports whether the status is a final verdict.
func (s Status) IsTerminal() bool {
	return s == StatusScam || s == StatusGenuine
}

// PersonalDetails describes how much personal data the reporter shared
// with the sender before reporting.
type PersonalDetails string

const (
	PersonalDetailsNone    PersonalDetails = "None"
	PersonalDetailsMention PersonalDetails = "Mention"
	PersonalDetailsFull    PersonalDetails = "Full"
)

// Confidence label returned by the classifier.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// RiskLevel returned by the classifier.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// Submission represents a reported message stored in the 'submissions' table.
type Submission struct {
	ID             int64           `db:"id" json:"id"`
	SubmitterEmail string          `db:"submitter_email" json:"submitter_email"`
	ReporterName   string          `db:"reporter_name" json:"reporter_name"`
	Roll           string          `db:"roll" json:"roll"`
	Branch         string          `db:"branch" json:"branch"`
	Year           string          `db:"year" json:"year"`
	Platform       string          `db:"platform" json:"platform"`
	Sender         string          `db:"sender" json:"sender"`
	Category       string          `db:"category" json:"category"`
	MessageText    string          `db:"message_text" json:"message_text"`
	DateReceived   time.Time       `db:"date_received" json:"date_received"`
	PersonalInfo   PersonalDetails `db:"personal_details" json:"personal_details"`
	ResponseText   string          `db:"response_details" json:"response_details"`
	NotifyOnDone   bool            `db:"notify_on_verdict" json:"notify_on_verdict"`

	Status Status `db:"status" json:"status"`

	ScamScore           int        `db:"scam_score" json:"scam_score"`
	GenuineScore        int        `db:"genuine_score" json:"genuine_score"`
	Confidence          Confidence `db:"confidence" json:"confidence"`
	RiskLevel           RiskLevel  `db:"risk_level" json:"risk_level"`
	EvidenceText        string     `db:"evidence_text" json:"evidence_text"`
	GenuineEvidenceText string     `db:"genuine_evidence_text" json:"genuine_evidence_text"`
	ProtectiveGuidance  []string   `db:"-" json:"protective_guidance"`
	InvestigationPath   []string   `db:"-" json:"investigation_path"`
	IsExpired           bool       `db:"is_expired" json:"is_expired"`

	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	VerificationCompletedAt *time.Time `db:"verification_completed_at" json:"verification_completed_at,omitempty"`
}

// VerificationComplete reports whether the pipeline (or a cache copy)
// has finished with this submission. Callers poll this.
func (s *Submission) VerificationComplete() bool {
	return s.VerificationCompletedAt != nil
}

// VerificationResult is the single atomic update a completed pipeline run
// (or cache hit) applies to a submission row.
type VerificationResult struct {
	Status              Status
	ScamScore           int
	GenuineScore        int
	Confidence          Confidence
	RiskLevel           RiskLevel
	EvidenceText        string
	GenuineEvidenceText string
	ProtectiveGuidance  []string
	InvestigationPath   []string
	IsExpired           bool
	CompletedAt         time.Time
}
