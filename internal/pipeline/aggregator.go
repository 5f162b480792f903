package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/scraper"
)

// Per-provider call timeouts. A timed-out provider is a failed provider,
// handled by the same fallback as any other provider error.
const (
	webRiskTimeout  = 6 * time.Second
	extractTimeout  = 10 * time.Second
	searchTimeout   = 8 * time.Second
	scrapeTimeout   = 15 * time.Second
	classifyTimeout = 30 * time.Second
)

// Investigation path labels. Persisted verbatim as the audit trail.
const (
	pathWebRiskPass    = "Web Risk Pass"
	pathWebRiskSkipped = "Web Risk Skipped"
	pathNoURL          = "No URL Found"
	pathCacheHit       = "Cache Hit"
	pathCompanyUnknown = "Company Unknown"
	pathSitesNone      = "No Official Sites"
	pathPageScraped    = "Page Scraped"
	pathNoPageContent  = "No Page Content"
	pathAIInvestigated = "AI Investigated"
	pathAIFallback     = "AI Fallback"
)

func pathWebRiskBlocked(threatType string) string {
	return fmt.Sprintf("Web Risk Blocked (%s)", threatType)
}

func pathCompanyIdentified(name string) string {
	return fmt.Sprintf("Company Identified: %s", name)
}

func pathSitesFound(n int) string {
	return fmt.Sprintf("Official Sites Found (%d)", n)
}

// fallbackVerdict is synthesized when the classifier is unreachable or
// returns garbage, so the submission still lands in review with a visible
// marker instead of failing silently.
func fallbackVerdict() *models.AIVerdict {
	return &models.AIVerdict{
		ScamScore:           50,
		GenuineScore:        0,
		Confidence:          models.ConfidenceLow,
		RiskLevel:           models.RiskHigh,
		EvidenceText:        "Automatic analysis unavailable — manual verification required.",
		GenuineEvidenceText: "Automatic analysis unavailable.",
		ProtectiveGuidance:  []string{},
	}
}

// aggregate runs stages A, B and C against an already URL-cleared message
// and merges the provider outputs into one evidence bundle. Every stage
// appends its outcome label to the returned investigation path. Provider
// failures degrade to empty or sentinel results, never to an error.
func (v *Verifier) aggregate(ctx context.Context, sub *models.Submission, path []string) (*models.EvidenceBundle, []string) {
	bundle := &models.EvidenceBundle{}

	// Stage A: company-name extraction. No retry; a failure just means
	// the official-site search is skipped.
	extractCtx, cancel := context.WithTimeout(ctx, extractTimeout)
	name, err := v.analyst.ExtractCompanyName(extractCtx, sub.MessageText)
	cancel()
	if err != nil {
		v.logger.Warn("Company name extraction failed",
			zap.Int64("submission_id", sub.ID), zap.Error(err))
		name = ""
	}
	bundle.CompanyName = name
	if name != "" {
		path = append(path, pathCompanyIdentified(name))
	} else {
		path = append(path, pathCompanyUnknown)
	}

	// Stage B: official-site search and page scrape run concurrently; the
	// slower branch must not serialize behind the faster one. Both branches
	// degrade gracefully, so the group never returns an error.
	msgURL := models.ExtractFirstURL(sub.MessageText)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if bundle.CompanyName == "" {
			return nil
		}
		searchCtx, cancel := context.WithTimeout(gCtx, searchTimeout)
		defer cancel()
		links, err := v.sites.OfficialSites(searchCtx, bundle.CompanyName)
		if err != nil {
			v.logger.Warn("Official site search failed",
				zap.Int64("submission_id", sub.ID), zap.Error(err))
			return nil
		}
		bundle.OfficialLinks = links
		return nil
	})

	g.Go(func() error {
		if msgURL == "" {
			bundle.ScrapedPageText = scraper.NoLinkSentinel
			return nil
		}
		scrapeCtx, cancel := context.WithTimeout(gCtx, scrapeTimeout)
		defer cancel()
		bundle.ScrapedPageText = v.pages.Scrape(scrapeCtx, msgURL)
		return nil
	})

	_ = g.Wait()

	if len(bundle.OfficialLinks) > 0 {
		path = append(path, pathSitesFound(len(bundle.OfficialLinks)))
	} else {
		path = append(path, pathSitesNone)
	}
	if scraper.IsContent(bundle.ScrapedPageText) {
		path = append(path, pathPageScraped)
	} else {
		path = append(path, pathNoPageContent)
	}

	// Stage C: classification. One attempt; any failure synthesizes the
	// fallback verdict.
	classifyCtx, cancel := context.WithTimeout(ctx, classifyTimeout)
	verdict, err := v.analyst.Classify(classifyCtx, models.ClassifyInput{
		MessageText:     sub.MessageText,
		ScrapedPageText: bundle.ScrapedPageText,
		OfficialLinks:   bundle.OfficialLinks,
		PersonalDetails: sub.PersonalInfo,
	})
	cancel()
	if err != nil {
		v.logger.Error("Classification failed, using fallback verdict",
			zap.Int64("submission_id", sub.ID), zap.Error(err))
		verdict = fallbackVerdict()
		path = append(path, pathAIFallback)
	} else {
		path = append(path, pathAIInvestigated)
	}
	bundle.AIVerdict = *verdict

	return bundle, path
}
