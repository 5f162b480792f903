package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/repository"
)

// A report older than this at verification time is flagged as expired.
const expiryAge = 30 * 24 * time.Hour

// URLChecker is the URL-safety signal provider.
type URLChecker interface {
	Check(ctx context.Context, url string) (models.URLCheck, error)
}

// Analyst covers the two LLM calls the pipeline makes.
type Analyst interface {
	ExtractCompanyName(ctx context.Context, text string) (string, error)
	Classify(ctx context.Context, in models.ClassifyInput) (*models.AIVerdict, error)
}

// SiteSearcher finds a company's official career portal links.
type SiteSearcher interface {
	OfficialSites(ctx context.Context, companyName string) ([]models.OfficialLink, error)
}

// PageScraper fetches readable text for a URL. It never fails; error paths
// yield sentinel strings.
type PageScraper interface {
	Scrape(ctx context.Context, url string) string
}

// Notifier dispatches the two pipeline-triggered notifications. Both are
// fire-and-forget from the pipeline's point of view.
type Notifier interface {
	AdminAlert(sub *models.Submission)
	UserVerdict(sub *models.Submission)
}

// Verifier runs the full verification pipeline for one submission.
type Verifier struct {
	repo     repository.SubmissionRepository
	urls     URLChecker
	analyst  Analyst
	sites    SiteSearcher
	pages    PageScraper
	notifier Notifier
	logger   *zap.Logger
}

func NewVerifier(
	repo repository.SubmissionRepository,
	urls URLChecker,
	analyst Analyst,
	sites SiteSearcher,
	pages PageScraper,
	notifier Notifier,
	logger *zap.Logger,
) *Verifier {
	return &Verifier{
		repo:     repo,
		urls:     urls,
		analyst:  analyst,
		sites:    sites,
		pages:    pages,
		notifier: notifier,
		logger:   logger,
	}
}

// Verify runs the pipeline to completion for the given submission. It never
// returns an error to the caller: every failure mode is logged and resolved
// into either a persisted verdict, a fallback verdict, or a submission left
// in review for manual triage.
func (v *Verifier) Verify(ctx context.Context, id int64) {
	logger := v.logger.With(
		zap.Int64("submission_id", id),
		zap.String("run_id", uuid.New().String()))

	sub, err := v.repo.GetByID(id)
	if err != nil {
		logger.Error("Failed to load submission", zap.Error(err))
		return
	}
	if sub == nil {
		logger.Error("Submission not found")
		return
	}
	if sub.VerificationComplete() {
		logger.Warn("Submission already verified, skipping")
		return
	}

	// Deduplication cache: identical scam blasts are re-reported often and
	// re-running paid provider APIs for byte-identical text wastes quota.
	prior, err := v.repo.FindCompletedByMessageText(sub.MessageText, sub.ID)
	if err != nil {
		logger.Error("Duplicate lookup failed, continuing with full pipeline", zap.Error(err))
	}
	if prior != nil {
		v.applyCacheHit(logger, sub, prior)
		return
	}

	// Stage 0: URL-safety check. A known-malicious URL is conclusive
	// regardless of what the text otherwise says; no further stage runs.
	path := []string{}
	msgURL := models.ExtractFirstURL(sub.MessageText)
	if msgURL == "" {
		path = append(path, pathNoURL)
	} else {
		checkCtx, cancel := context.WithTimeout(ctx, webRiskTimeout)
		check, err := v.urls.Check(checkCtx, msgURL)
		cancel()
		if err != nil {
			// Fail open: an unreachable reputation service is not a threat.
			// The audit trail records a skip, not a pass.
			logger.Warn("URL safety check failed, treating URL as clean", zap.Error(err))
			path = append(path, pathWebRiskSkipped)
		} else if check.Unsafe {
			v.applyBlockedURL(logger, sub, check)
			return
		} else {
			path = append(path, pathWebRiskPass)
		}
	}

	// Stages A, B, C.
	bundle, path := v.aggregate(ctx, sub, path)

	// Decision engine: computed exactly once per run.
	status, alert := Decide(bundle.AIVerdict.ScamScore, bundle.AIVerdict.GenuineScore)
	res := v.foldResult(sub, &bundle.AIVerdict, status, path)

	if err := v.repo.ApplyVerificationResult(sub.ID, res); err != nil {
		// The submission stays InReview and visible to admins as stuck.
		logger.Error("Failed to persist verification result", zap.Error(err))
		return
	}
	applyResult(sub, res)

	logger.Info("Verification complete",
		zap.String("status", string(res.Status)),
		zap.Int("scam_score", res.ScamScore),
		zap.Int("genuine_score", res.GenuineScore),
		zap.Strings("investigation_path", res.InvestigationPath))

	if alert {
		v.notifier.AdminAlert(sub)
	}
	if res.Status.IsTerminal() {
		v.notifyUser(sub)
	}
}

// applyCacheHit copies a previously verified identical submission's verdict
// without invoking any provider.
func (v *Verifier) applyCacheHit(logger *zap.Logger, sub, prior *models.Submission) {
	res := &models.VerificationResult{
		Status:              prior.Status,
		ScamScore:           prior.ScamScore,
		GenuineScore:        prior.GenuineScore,
		Confidence:          prior.Confidence,
		RiskLevel:           prior.RiskLevel,
		EvidenceText:        fmt.Sprintf("[Cached] Matched previously verified report #%d. %s", prior.ID, prior.EvidenceText),
		GenuineEvidenceText: prior.GenuineEvidenceText,
		ProtectiveGuidance:  prior.ProtectiveGuidance,
		InvestigationPath:   append([]string{pathCacheHit}, prior.InvestigationPath...),
		IsExpired:           isExpired(sub.DateReceived),
		CompletedAt:         time.Now(),
	}

	if err := v.repo.ApplyVerificationResult(sub.ID, res); err != nil {
		logger.Error("Failed to persist cache-hit result", zap.Error(err))
		return
	}
	applyResult(sub, res)

	logger.Info("Duplicate message, copied prior verdict",
		zap.Int64("prior_id", prior.ID), zap.String("status", string(res.Status)))

	if res.Status.IsTerminal() {
		v.notifyUser(sub)
	}
}

// applyBlockedURL writes the stage-0 forced verdict.
func (v *Verifier) applyBlockedURL(logger *zap.Logger, sub *models.Submission, check models.URLCheck) {
	verdict := &models.AIVerdict{
		ScamScore:           100,
		GenuineScore:        0,
		Confidence:          models.ConfidenceHigh,
		RiskLevel:           models.RiskCritical,
		EvidenceText:        fmt.Sprintf("Blocked URL detected: %s is flagged as %s by Google Web Risk.", check.URL, check.ThreatType),
		GenuineEvidenceText: "None. The embedded link is a known threat.",
		ProtectiveGuidance: []string{
			"Do not click any links in this message",
			"Contact university administration",
		},
	}
	path := []string{pathWebRiskBlocked(check.ThreatType)}
	res := v.foldResult(sub, verdict, models.StatusScam, path)

	if err := v.repo.ApplyVerificationResult(sub.ID, res); err != nil {
		logger.Error("Failed to persist blocked-URL verdict", zap.Error(err))
		return
	}
	applyResult(sub, res)

	logger.Warn("Submission blocked at URL safety stage",
		zap.String("url", check.URL), zap.String("threat_type", check.ThreatType))

	v.notifyUser(sub)
}

// foldResult turns a verdict into the single atomic row update.
func (v *Verifier) foldResult(sub *models.Submission, verdict *models.AIVerdict, status models.Status, path []string) *models.VerificationResult {
	return &models.VerificationResult{
		Status:              status,
		ScamScore:           verdict.ScamScore,
		GenuineScore:        verdict.GenuineScore,
		Confidence:          verdict.Confidence,
		RiskLevel:           verdict.RiskLevel,
		EvidenceText:        ComposeEvidence(verdict, status, path),
		GenuineEvidenceText: verdict.GenuineEvidenceText,
		ProtectiveGuidance:  verdict.ProtectiveGuidance,
		InvestigationPath:   path,
		IsExpired:           isExpired(sub.DateReceived),
		CompletedAt:         time.Now(),
	}
}

// notifyUser sends the verdict mail when the submitter opted in.
func (v *Verifier) notifyUser(sub *models.Submission) {
	if !sub.NotifyOnDone || sub.SubmitterEmail == "" {
		return
	}
	v.notifier.UserVerdict(sub)
}

func isExpired(dateReceived time.Time) bool {
	return !dateReceived.IsZero() && time.Since(dateReceived) > expiryAge
}

// applyResult mirrors a persisted result onto the in-memory submission so
// notification bodies read the same values as the stored row.
func applyResult(sub *models.Submission, res *models.VerificationResult) {
	sub.Status = res.Status
	sub.ScamScore = res.ScamScore
	sub.GenuineScore = res.GenuineScore
	sub.Confidence = res.Confidence
	sub.RiskLevel = res.RiskLevel
	sub.EvidenceText = res.EvidenceText
	sub.GenuineEvidenceText = res.GenuineEvidenceText
	sub.ProtectiveGuidance = res.ProtectiveGuidance
	sub.InvestigationPath = res.InvestigationPath
	sub.IsExpired = res.IsExpired
	completedAt := res.CompletedAt
	sub.VerificationCompletedAt = &completedAt
}
