package llm

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/scraper"
)

// SystemInstruction frames the classifier role for every provider.
const SystemInstruction = `You are a Lead Fraud Intelligence Analyst. Your mission is to protect university students from predatory recruitment scams by analyzing available data through the Fraud Intelligence Framework. You always answer with a single valid JSON object and nothing else.`

const intelligenceRules = `--- INTELLIGENCE RULES ---
1. TRUST HIERARCHY (CRITICAL): Verified official portals (e.g., careers.google.com, joinwipro.com) found via search are the HIGHEST trust signal. If the message link matches an official domain, reduce scam_score significantly.
2. PSYCHOLOGICAL MANIPULATION: Detect FOMO, extreme urgency (e.g., "Last 1 hour," "Limited spots"), and emotional pressure.
3. IDENTITY & DATA RISK: Flag any request for Government IDs (Aadhaar, PAN), Bank Details, or OTPs without a known corporate portal context.
4. FINANCIAL RISK: Detect "Registration Fees," "Security Deposits," "Nominal Training Fees," or UPI-only payment requests for employment.
5. ENTITY & BRAND TRUST: Validate brand partnership claims (e.g., "Wipro Hiring") against official search data. Flag mismatches.
6. COMMUNICATION ANALYSIS: Flag the use of personal Gmail/Yahoo/Hotmail accounts for official corporate offers.
7. PLATFORM ANOMALY: Flag hiring processes restricted solely to WhatsApp, Telegram, or Google Forms if the company is an MNC.`

const outputSchema = `--- SCORING & OUTPUT ---
- Simultaneously compute BOTH a scam_score AND a genuine_score (0-100). They are independent and need not sum to 100.
- If Financial Red Flags or Data Exploitation are detected, risk_level MUST be 'High' or 'Critical' and scam_score >= 90.

Return ONLY valid JSON:
{
  "scam_score": <0-100>,
  "genuine_score": <0-100>,
  "risk_level": "Low" | "Medium" | "High" | "Critical",
  "confidence": "HIGH" | "MEDIUM" | "LOW",
  "ai_evidence": "Detailed technical and forensic proof of risk indicators.",
  "genuine_evidence": "Forensic proof of authenticity (e.g., domain match, verified portal).",
  "protective_guidance": [
    "Tip 1 (e.g., Do not pay any security deposit)",
    "Tip 2 (e.g., Verify directly at company.com/careers)",
    "Tip 3",
    "Tip 4"
  ]
}`

// truncate caps s at max bytes, backing up so a multi-byte rune is never
// split. Reported messages routinely carry rupee signs and emoji.
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

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// BuildClassifyPrompt assembles the investigative prompt from the message
// and whatever the earlier pipeline stages produced.
func BuildClassifyPrompt(in models.ClassifyInput) string {
	var b strings.Builder

	b.WriteString("--- INVESTIGATIVE DATA ---\n")
	if scraper.IsContent(in.ScrapedPageText) {
		fmt.Fprintf(&b, "LIVE PAGE CONTENT:\n%s\n---\n", truncate(in.ScrapedPageText, 2000))
	}
	if len(in.OfficialLinks) > 0 {
		b.WriteString("OFFICIAL COMPANY DATA (search):\n")
		for i, link := range in.OfficialLinks {
			fmt.Fprintf(&b, "  %d. %s — %s\n", i+1, link.Title, link.URL)
		}
		b.WriteString("---\n")
	}
	fmt.Fprintf(&b, "ORIGINAL MESSAGE:\n%s\n---\n", truncate(in.MessageText, 1200))

	if msgURL := models.ExtractFirstURL(in.MessageText); msgURL != "" && len(in.OfficialLinks) > 0 {
		var officialDomains []string
		for _, link := range in.OfficialLinks {
			if d := hostname(link.URL); d != "" {
				officialDomains = append(officialDomains, d)
			}
		}
		if msgDomain := hostname(msgURL); msgDomain != "" && len(officialDomains) > 0 {
			fmt.Fprintf(&b, "\nDOMAIN ANALYSIS: The message URL domain is %q. Official domains found: %s.\n",
				msgDomain, strings.Join(officialDomains, ", "))
		}
	}

	if in.PersonalDetails != "" && in.PersonalDetails != models.PersonalDetailsNone {
		fmt.Fprintf(&b, "\nREPORTER CONTEXT: The reporter already shared personal details with the sender (level: %s). Weigh data-exploitation risk accordingly.\n", in.PersonalDetails)
	}

	b.WriteString("\n")
	b.WriteString(intelligenceRules)
	b.WriteString("\n\n")
	b.WriteString(outputSchema)
	return b.String()
}

// BuildExtractPrompt asks for the organization named in a message.
func BuildExtractPrompt(text string) string {
	return fmt.Sprintf("Extract the company or organization name from this message. Return ONLY the company name as plain text (no quotes, no punctuation, no explanation). If no company is mentioned, return: UNKNOWN\n\nMessage:\n%s", truncate(text, 800))
}
