package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/pipeline"
	"github.com/BhargaviBandaru98/VNR-Wall/internal/repository"
)

// VerdictNotifier is the slice of the dispatcher the override path needs.
type VerdictNotifier interface {
	UserVerdict(sub *models.Submission)
}

type SubmissionHandler interface {
	Create(c *gin.Context)
	GetAll(c *gin.Context)
	GetByID(c *gin.Context)
	UpdateStatus(c *gin.Context)
	OptInNotify(c *gin.Context)
}

type submissionHandler struct {
	repo     repository.SubmissionRepository
	queue    pipeline.Enqueuer
	notifier VerdictNotifier
	renotify bool
	logger   *zap.Logger
}

func NewSubmissionHandler(repo repository.SubmissionRepository, queue pipeline.Enqueuer, notifier VerdictNotifier, renotify bool, logger *zap.Logger) SubmissionHandler {
	return &submissionHandler{
		repo:     repo,
		queue:    queue,
		notifier: notifier,
		renotify: renotify,
		logger:   logger,
	}
}

type CreateSubmissionRequest struct {
	SubmitterEmail  string `json:"submitter_email" binding:"required,email"`
	MessageText     string `json:"message_text" binding:"required"`
	DateReceived    string `json:"date_received" binding:"required"`
	PersonalDetails string `json:"personal_details"`
	ResponseDetails string `json:"response_details"`
	NotifyOnVerdict bool   `json:"notify_on_verdict"`
	ReporterName    string `json:"reporter_name"`
	Roll            string `json:"roll"`
	Branch          string `json:"branch"`
	Year            string `json:"year"`
	Platform        string `json:"platform"`
	Sender          string `json:"sender"`
	Category        string `json:"category"`
}

// Create handles POST /api/submissions. It returns the new id immediately;
// verification runs out-of-band and callers poll until it completes.
func (h *submissionHandler) Create(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateReceived, err := time.Parse("2006-01-02", req.DateReceived)
	if err != nil {
		if dateReceived, err = time.Parse(time.RFC3339, req.DateReceived); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_received must be YYYY-MM-DD or RFC3339"})
			return
		}
	}

	personal := models.PersonalDetailsNone
	switch models.PersonalDetails(req.PersonalDetails) {
	case models.PersonalDetailsNone, "":
	case models.PersonalDetailsMention, models.PersonalDetailsFull:
		personal = models.PersonalDetails(req.PersonalDetails)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "personal_details must be None, Mention or Full"})
		return
	}

	sub := &models.Submission{
		SubmitterEmail: req.SubmitterEmail,
		ReporterName:   req.ReporterName,
		Roll:           req.Roll,
		Branch:         req.Branch,
		Year:           req.Year,
		Platform:       req.Platform,
		Sender:         req.Sender,
		Category:       req.Category,
		MessageText:    req.MessageText,
		DateReceived:   dateReceived,
		PersonalInfo:   personal,
		ResponseText:   req.ResponseDetails,
		NotifyOnDone:   req.NotifyOnVerdict,
		Status:         models.StatusInReview,
	}

	if err := h.repo.Create(sub); err != nil {
		h.logger.Error("Failed to create submission", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": sub.ID})

	// Scheduled after the response is written; no caller awaits the run.
	h.queue.Enqueue(sub.ID)
}

// GetAll handles GET /api/submissions, most recent first.
func (h *submissionHandler) GetAll(c *gin.Context) {
	subs, err := h.repo.GetAll()
	if err != nil {
		h.logger.Error("Failed to get submissions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// GetByID handles GET /api/submissions/:id.
func (h *submissionHandler) GetByID(c *gin.Context) {
	sub, ok := h.loadSubmission(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submission":            sub,
		"verification_complete": sub.VerificationComplete(),
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/submissions/:id/status, the admin override
// path. It bypasses scoring entirely and is idempotent: setting the current
// status again changes nothing and re-sends nothing.
func (h *submissionHandler) UpdateStatus(c *gin.Context) {
	sub, ok := h.loadSubmission(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status == sub.Status {
		c.JSON(http.StatusOK, gin.H{"success": true, "changed": false})
		return
	}

	prevStatus := sub.Status
	if err := h.repo.UpdateStatus(sub.ID, status); err != nil {
		h.logger.Error("Failed to update status", zap.Int64("id", sub.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	h.logger.Info("Status updated by admin",
		zap.Int64("id", sub.ID),
		zap.String("from", string(prevStatus)),
		zap.String("to", string(status)))

	c.JSON(http.StatusOK, gin.H{"success": true, "changed": true})

	// Notify the submitter on a transition into a terminal status. A later
	// correcting flip (terminal to terminal) only re-notifies when that
	// policy is enabled.
	if status.IsTerminal() && sub.NotifyOnDone && sub.SubmitterEmail != "" {
		if !prevStatus.IsTerminal() || h.renotify {
			sub.Status = status
			h.notifier.UserVerdict(sub)
		}
	}
}

// OptInNotify handles POST /api/submissions/:id/notify. It only arms the
// flag for a future terminal transition; already-decided items are not
// re-delivered.
func (h *submissionHandler) OptInNotify(c *gin.Context) {
	sub, ok := h.loadSubmission(c)
	if !ok {
		return
	}

	if err := h.repo.SetNotifyOnVerdict(sub.ID, true); err != nil {
		h.logger.Error("Failed to set notify flag", zap.Int64("id", sub.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *submissionHandler) loadSubmission(c *gin.Context) (*models.Submission, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return nil, false
	}

	sub, err := h.repo.GetByID(id)
	if err != nil {
		h.logger.Error("Failed to get submission", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submission"})
		return nil, false
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return nil, false
	}
	return sub, true
}
