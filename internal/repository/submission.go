package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

// SubmissionRepository is the submission store the pipeline and handlers
// depend on. The core never touches the submissions table outside of it.
type SubmissionRepository interface {
	Create(sub *models.Submission) error
	GetByID(id int64) (*models.Submission, error)
	GetAll() ([]*models.Submission, error)
	// FindCompletedByMessageText returns the most recently verified
	// submission with byte-identical message text, excluding excludeID,
	// or nil when none exists.
	FindCompletedByMessageText(text string, excludeID int64) (*models.Submission, error)
	// ApplyVerificationResult atomically writes all evidence fields,
	// the status and verification_completed_at in a single update.
	ApplyVerificationResult(id int64, res *models.VerificationResult) error
	// UpdateStatus is the admin-override path; it touches status only.
	UpdateStatus(id int64, status models.Status) error
	SetNotifyOnVerdict(id int64, notify bool) error
}

type submissionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSubmissionRepository(db *sqlx.DB, logger *zap.Logger) SubmissionRepository {
	return &submissionRepository{db: db, logger: logger}
}

// submissionRow mirrors the table; list columns are stored as JSON text.
type submissionRow struct {
	models.Submission
	GuidanceJSON string `db:"protective_guidance"`
	PathJSON     string `db:"investigation_path"`
}

func (r *submissionRow) toModel() (*models.Submission, error) {
	sub := r.Submission
	if r.GuidanceJSON != "" {
		if err := json.Unmarshal([]byte(r.GuidanceJSON), &sub.ProtectiveGuidance); err != nil {
			return nil, fmt.Errorf("failed to decode protective_guidance: %w", err)
		}
	}
	if r.PathJSON != "" {
		if err := json.Unmarshal([]byte(r.PathJSON), &sub.InvestigationPath); err != nil {
			return nil, fmt.Errorf("failed to decode investigation_path: %w", err)
		}
	}
	return &sub, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const submissionColumns = `id, submitter_email, reporter_name, roll, branch, year, platform, sender, category,
	message_text, date_received, personal_details, response_details, notify_on_verdict, status,
	scam_score, genuine_score, confidence, risk_level, evidence_text, genuine_evidence_text,
	protective_guidance, investigation_path, is_expired, created_at, verification_completed_at`

func (r *submissionRepository) Create(sub *models.Submission) error {
	if sub.Status == "" {
		sub.Status = models.StatusInReview
	}
	query := `INSERT INTO submissions (submitter_email, reporter_name, roll, branch, year, platform, sender, category,
			message_text, date_received, personal_details, response_details, notify_on_verdict, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`
	return r.db.QueryRowx(query,
		sub.SubmitterEmail, sub.ReporterName, sub.Roll, sub.Branch, sub.Year,
		sub.Platform, sub.Sender, sub.Category,
		sub.MessageText, sub.DateReceived, sub.PersonalInfo, sub.ResponseText,
		sub.NotifyOnDone, sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt)
}

func (r *submissionRepository) GetByID(id int64) (*models.Submission, error) {
	var row submissionRow
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	if err := r.db.Get(&row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *submissionRepository) GetAll() ([]*models.Submission, error) {
	var rows []submissionRow
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY created_at DESC`
	if err := r.db.Select(&rows, query); err != nil {
		return nil, err
	}

	subs := make([]*models.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rows[i].toModel()
		if err != nil {
			r.logger.Error("Failed to decode submission row", zap.Int64("id", rows[i].ID), zap.Error(err))
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *submissionRepository) FindCompletedByMessageText(text string, excludeID int64) (*models.Submission, error) {
	var row submissionRow
	query := `SELECT ` + submissionColumns + ` FROM submissions
		WHERE message_text = $1 AND id <> $2 AND verification_completed_at IS NOT NULL
		ORDER BY verification_completed_at DESC
		LIMIT 1`
	if err := r.db.Get(&row, query, text, excludeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *submissionRepository) ApplyVerificationResult(id int64, res *models.VerificationResult) error {
	guidance, err := marshalList(res.ProtectiveGuidance)
	if err != nil {
		return fmt.Errorf("failed to encode protective_guidance: %w", err)
	}
	path, err := marshalList(res.InvestigationPath)
	if err != nil {
		return fmt.Errorf("failed to encode investigation_path: %w", err)
	}

	query := `UPDATE submissions SET
			status = $1, scam_score = $2, genuine_score = $3, confidence = $4, risk_level = $5,
			evidence_text = $6, genuine_evidence_text = $7, protective_guidance = $8,
			investigation_path = $9, is_expired = $10, verification_completed_at = $11
		WHERE id = $12`
	result, err := r.db.Exec(query,
		res.Status, res.ScamScore, res.GenuineScore, res.Confidence, res.RiskLevel,
		res.EvidenceText, res.GenuineEvidenceText, guidance,
		path, res.IsExpired, res.CompletedAt, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}

func (r *submissionRepository) UpdateStatus(id int64, status models.Status) error {
	result, err := r.db.Exec(`UPDATE submissions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}

func (r *submissionRepository) SetNotifyOnVerdict(id int64, notify bool) error {
	result, err := r.db.Exec(`UPDATE submissions SET notify_on_verdict = $1 WHERE id = $2`, notify, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}
