package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

func TestTruncate_RuneBoundary(t *testing.T) {
	// "a" + rupee signs: a byte-index cut at any multiple of 3 falls
	// mid-rune because of the ASCII offset.
	s := "a" + strings.Repeat("₹", 10)
	for max := 1; max <= len(s); max++ {
		got := truncate(s, max)
		if len(got) > max {
			t.Fatalf("truncate(max=%d) returned %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(max=%d) = %q, invalid UTF-8", max, got)
		}
	}
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate below cap = %q, want unchanged", got)
	}
}

func TestBuildExtractPrompt_LongMessageStaysValidUTF8(t *testing.T) {
	msg := strings.Repeat("🚨 Pay ₹2000 now! ", 100)
	prompt := BuildExtractPrompt(msg)
	if !utf8.ValidString(prompt) {
		t.Error("extract prompt contains invalid UTF-8 after truncation")
	}
}

func TestBuildClassifyPrompt(t *testing.T) {
	in := models.ClassifyInput{
		MessageText:     "Wipro hiring! Apply at https://wipro-jobs.example/form",
		ScrapedPageText: "Apply for the elite drive",
		OfficialLinks: []models.OfficialLink{
			{Title: "Wipro Careers", URL: "https://careers.wipro.com"},
		},
		PersonalDetails: models.PersonalDetailsFull,
	}
	prompt := BuildClassifyPrompt(in)

	for _, want := range []string{
		"LIVE PAGE CONTENT:",
		"OFFICIAL COMPANY DATA",
		"ORIGINAL MESSAGE:",
		"DOMAIN ANALYSIS:",
		"wipro-jobs.example",
		"careers.wipro.com",
		"REPORTER CONTEXT",
		"scam_score",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildClassifyPrompt_SentinelPageTextOmitted(t *testing.T) {
	in := models.ClassifyInput{
		MessageText:     "no links here",
		ScrapedPageText: "No link found in message",
		PersonalDetails: models.PersonalDetailsNone,
	}
	prompt := BuildClassifyPrompt(in)
	if strings.Contains(prompt, "LIVE PAGE CONTENT:") {
		t.Error("sentinel page text must not be presented as live content")
	}
	if strings.Contains(prompt, "REPORTER CONTEXT") {
		t.Error("reporter context only appears when personal details were shared")
	}
}
