package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// Dispatcher sends admin alerts and user verdict notifications. Every send
// is fire-and-forget: failures are logged and never reach the pipeline.
type Dispatcher struct {
	mailer      Mailer
	telegram    *TelegramAlerter
	adminEmails []string
	frontendURL string
	logger      *zap.Logger
}

func NewDispatcher(mailer Mailer, telegram *TelegramAlerter, adminEmails []string, frontendURL string, logger *zap.Logger) *Dispatcher {
	if len(adminEmails) == 0 {
		logger.Warn("No admin emails configured, borderline alerts will only be logged")
	}
	return &Dispatcher{
		mailer:      mailer,
		telegram:    telegram,
		adminEmails: adminEmails,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// AdminAlert notifies staff about a borderline submission that is too risky
// to leave unflagged but not confident enough to auto-decide.
func (d *Dispatcher) AdminAlert(sub *models.Submission) {
	subject := fmt.Sprintf("⚠️ VNR Wall Alert — Suspicious %s needs review (ID: #%d)", orDash(sub.Category), sub.ID)

	if d.telegram != nil {
		text := fmt.Sprintf("⚠️ Suspicious submission #%d needs review\nCategory: %s | Platform: %s | Sender: %s\nScam score: %d/100, genuine score: %d/100 (%s confidence)",
			sub.ID, orDash(sub.Category), orDash(sub.Platform), orDash(sub.Sender),
			sub.ScamScore, sub.GenuineScore, sub.Confidence)
		if err := d.telegram.Alert(text); err != nil {
			d.logger.Error("Failed to send Telegram admin alert",
				zap.Int64("submission_id", sub.ID), zap.Error(err))
		}
	}

	if d.mailer == nil || len(d.adminEmails) == 0 {
		d.logger.Warn("Skipping admin alert mail, mailer not configured or no admin emails",
			zap.Int64("submission_id", sub.ID))
		return
	}

	if err := d.mailer.Send(d.adminEmails, subject, d.adminAlertBody(sub)); err != nil {
		d.logger.Error("Failed to send admin alert",
			zap.Int64("submission_id", sub.ID), zap.Error(err))
		return
	}
	d.logger.Info("Admin alert sent",
		zap.Int64("submission_id", sub.ID), zap.Strings("to", d.adminEmails))
}

// UserVerdict mails the submitter once their report reaches a terminal
// verdict. The caller checks the opt-in flag; this only composes and sends.
func (d *Dispatcher) UserVerdict(sub *models.Submission) {
	if d.mailer == nil || sub.SubmitterEmail == "" {
		d.logger.Warn("Skipping user notification, mailer not configured or no email on record",
			zap.Int64("submission_id", sub.ID))
		return
	}

	isScam := sub.Status == models.StatusScam
	verdictWord := "Verified Genuine"
	if isScam {
		verdictWord = "Scam Detected"
	}
	subject := fmt.Sprintf("Your VNR Wall Result is Ready: %s", verdictWord)

	if err := d.mailer.Send([]string{sub.SubmitterEmail}, subject, d.userVerdictBody(sub, isScam)); err != nil {
		d.logger.Error("Failed to send user notification",
			zap.Int64("submission_id", sub.ID), zap.Error(err))
		return
	}
	d.logger.Info("User notification sent",
		zap.Int64("submission_id", sub.ID), zap.String("to", sub.SubmitterEmail))
}

func (d *Dispatcher) adminAlertBody(sub *models.Submission) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr><td style="padding:8px 10px;color:#555;width:160px;"><b>%s</b></td><td style="padding:8px 10px;">%s</td></tr>`,
			label, html.EscapeString(value))
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:660px;margin:auto;border:1px solid #e0e0e0;border-radius:8px;">`)
	b.WriteString(`<div style="background:#c0392b;padding:18px 24px;"><h2 style="color:#fff;margin:0;">⚠️ Suspicious Submission — Manual Review Required</h2></div>`)
	b.WriteString(`<div style="padding:24px;"><h3 style="margin:0 0 10px;">📋 Submission Details</h3><table style="width:100%;border-collapse:collapse;font-size:14px;">`)
	b.WriteString(row("Submission ID", fmt.Sprintf("#%d", sub.ID)))
	b.WriteString(row("Reporter", fmt.Sprintf("%s | Roll: %s | Branch: %s", orDash(sub.ReporterName), orDash(sub.Roll), orDash(sub.Branch))))
	b.WriteString(row("Category", orDash(sub.Category)))
	b.WriteString(row("Platform", orDash(sub.Platform)))
	b.WriteString(row("Sender", orDash(sub.Sender)))
	b.WriteString(`</table><h3 style="color:#c0392b;margin:16px 0 10px;">🤖 Investigation Verdict</h3><table style="width:100%;border-collapse:collapse;font-size:14px;">`)
	b.WriteString(row("Scam Score", fmt.Sprintf("%d/100", sub.ScamScore)))
	b.WriteString(row("Genuine Score", fmt.Sprintf("%d/100", sub.GenuineScore)))
	b.WriteString(row("Confidence", string(sub.Confidence)))
	b.WriteString(row("Risk Level", string(sub.RiskLevel)))
	b.WriteString(row("Scam Evidence", sub.EvidenceText))
	b.WriteString(row("Genuine Evidence", sub.GenuineEvidenceText))
	b.WriteString(row("Investigation Path", strings.Join(sub.InvestigationPath, " -> ")))
	b.WriteString(`</table><h3 style="margin:16px 0 8px;">💬 Original Message</h3>`)
	b.WriteString(fmt.Sprintf(`<div style="background:#f9f9f9;padding:12px;border-left:4px solid #c0392b;font-size:13px;white-space:pre-wrap;">%s</div>`,
		html.EscapeString(truncate(sub.MessageText, 1200))))
	b.WriteString(`<p style="margin:20px 0 0;font-size:12px;color:#aaa;text-align:center;">Sent by VNR Wall Automated Verification System · Log in to the Admin Panel to take action</p>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

func (d *Dispatcher) userVerdictBody(sub *models.Submission, isScam bool) string {
	verdictColor := "#27ae60"
	verdictTitle := "✅ Verified as Genuine"
	evidence := sub.GenuineEvidenceText
	if isScam {
		verdictColor = "#c0392b"
		verdictTitle = "⚠️ Scam Detected"
		evidence = sub.EvidenceText
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:auto;border:1px solid #e0e0e0;border-radius:8px;">`)
	b.WriteString(fmt.Sprintf(`<div style="background:%s;padding:18px 24px;"><h2 style="color:#fff;margin:0;">Investigation Complete</h2></div>`, verdictColor))
	b.WriteString(`<div style="padding:24px;">`)
	b.WriteString(fmt.Sprintf(`<h3 style="color:%s;margin:0 0 10px;">%s</h3>`, verdictColor, verdictTitle))
	b.WriteString(fmt.Sprintf(`<p style="font-size:14px;color:#555;">Your submitted message (ID: #%d) has been fully verified.</p>`, sub.ID))
	b.WriteString(fmt.Sprintf(`<p style="font-size:14px;"><b>Risk Score:</b> %d%% &nbsp; <b>Analysis:</b> %s (%s confidence)</p>`,
		sub.ScamScore, sub.Status, sub.Confidence))
	b.WriteString(fmt.Sprintf(`<div style="font-size:13px;color:#444;background:#f1f5f9;padding:12px;border-radius:6px;"><b>Forensic Evidence:</b><br/>%s</div>`,
		html.EscapeString(evidence)))

	// Rescue steps are only itemized for confirmed critical scams.
	if isScam && sub.RiskLevel == models.RiskCritical && len(sub.ProtectiveGuidance) > 0 {
		b.WriteString(`<div style="background:#fff3cd;color:#856404;padding:12px;border-left:4px solid #ffeeba;margin-top:16px;"><h4 style="margin:0 0 8px;">🛡️ Immediate Rescue Steps:</h4><ul style="margin:0;padding-left:20px;">`)
		for _, tip := range sub.ProtectiveGuidance {
			b.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(tip)))
		}
		b.WriteString(`</ul></div>`)
	}

	if d.frontendURL != "" {
		b.WriteString(fmt.Sprintf(`<div style="text-align:center;margin-top:24px;"><a href="%s/responses" style="display:inline-block;background:#2563eb;color:#fff;text-decoration:none;padding:12px 24px;border-radius:6px;font-weight:bold;">View Details &amp; Dashboard</a></div>`, d.frontendURL))
	}

	b.WriteString(`</div></div>`)
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// truncate caps s at max bytes without splitting a multi-byte rune.
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
