package notifier

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

type capturedMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent []capturedMail
}

func (m *fakeMailer) Send(to []string, subject, htmlBody string) error {
	m.sent = append(m.sent, capturedMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func scamSubmission() *models.Submission {
	return &models.Submission{
		ID:                  7,
		SubmitterEmail:      "student@vnrvjiet.in",
		Category:            "Internship Offer",
		Platform:            "WhatsApp",
		Sender:              "+91 99999 00000",
		MessageText:         "Pay <b>now</b> to confirm",
		Status:              models.StatusScam,
		ScamScore:           85,
		GenuineScore:        10,
		Confidence:          models.ConfidenceHigh,
		RiskLevel:           models.RiskCritical,
		EvidenceText:        "Upfront fee demanded.",
		GenuineEvidenceText: "None.",
		ProtectiveGuidance:  []string{"Do not pay any fee", "Report to placement cell"},
		InvestigationPath:   []string{"No URL Found", "AI Investigated"},
	}
}

func TestAdminAlert(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, []string{"admin@vnrvjiet.in"}, "", zap.NewNop())

	d.AdminAlert(scamSubmission())

	if len(mailer.sent) != 1 {
		t.Fatalf("sent = %d mails, want 1", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.to[0] != "admin@vnrvjiet.in" {
		t.Errorf("to = %v", mail.to)
	}
	if !strings.Contains(mail.subject, "#7") || !strings.Contains(mail.subject, "Internship Offer") {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, "85/100") {
		t.Error("body missing scam score")
	}
	if !strings.Contains(mail.body, "No URL Found -&gt; AI Investigated") &&
		!strings.Contains(mail.body, "No URL Found -> AI Investigated") {
		t.Error("body missing investigation path")
	}
	if strings.Contains(mail.body, "<b>now</b>") {
		t.Error("message text must be HTML-escaped")
	}
}

func TestAdminAlert_LongMessageBodyStaysValidUTF8(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, []string{"admin@vnrvjiet.in"}, "", zap.NewNop())

	sub := scamSubmission()
	sub.MessageText = "x" + strings.Repeat("₹2000 🚨 ", 300)
	d.AdminAlert(sub)

	if !utf8.ValidString(mailer.sent[0].body) {
		t.Error("alert body contains invalid UTF-8 after message truncation")
	}
}

func TestAdminAlert_NoMailerNoPanic(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, "", zap.NewNop())
	d.AdminAlert(scamSubmission())
}

func TestUserVerdict_ScamWithRescueSteps(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, nil, "http://localhost:3105", zap.NewNop())

	d.UserVerdict(scamSubmission())

	if len(mailer.sent) != 1 {
		t.Fatalf("sent = %d mails, want 1", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if !strings.Contains(mail.subject, "Scam Detected") {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, "Do not pay any fee") {
		t.Error("critical scam verdict must list rescue steps")
	}
	if !strings.Contains(mail.body, "http://localhost:3105/responses") {
		t.Error("body missing dashboard link")
	}
}

func TestUserVerdict_GenuineOmitsRescueSteps(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, nil, "", zap.NewNop())

	sub := scamSubmission()
	sub.Status = models.StatusGenuine
	sub.RiskLevel = models.RiskLow
	sub.GenuineEvidenceText = "Official portal match."
	d.UserVerdict(sub)

	mail := mailer.sent[0]
	if !strings.Contains(mail.subject, "Verified Genuine") {
		t.Errorf("subject = %q", mail.subject)
	}
	if strings.Contains(mail.body, "Rescue Steps") {
		t.Error("genuine verdict must not include rescue steps")
	}
	if !strings.Contains(mail.body, "Official portal match.") {
		t.Error("genuine verdict should surface the genuine evidence")
	}
}

func TestUserVerdict_HighRiskScamWithoutCriticalOmitsSteps(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, nil, nil, "", zap.NewNop())

	sub := scamSubmission()
	sub.RiskLevel = models.RiskHigh
	d.UserVerdict(sub)

	if strings.Contains(mailer.sent[0].body, "Rescue Steps") {
		t.Error("rescue steps are reserved for Critical risk")
	}
}
