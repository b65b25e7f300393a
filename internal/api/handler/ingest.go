package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/repository"
)

// IngestHandler handles video processing endpoints. Processing is
// asynchronous: requests enqueue an ingest job and return its id for polling.
type IngestHandler struct {
	users *repository.UserRepository
	blogs *repository.BlogRepository
	jobs  *repository.JobRepository
}

// NewIngestHandler creates a new ingest handler.
// Parameters:
//   - users: user repository instance.
//   - blogs: blog repository instance.
//   - jobs: job repository instance.
// Returns:
//   - *IngestHandler: initialized handler.
func NewIngestHandler(users *repository.UserRepository, blogs *repository.BlogRepository, jobs *repository.JobRepository) *IngestHandler {
	return &IngestHandler{users: users, blogs: blogs, jobs: jobs}
}

type processVideoRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	YoutubeURL string `json:"youtube_url" binding:"required,url"`
}

// ProcessVideo handles POST /api/v1/process-video.
// An already ingested video short-circuits with the existing blog; an
// in-flight job for the same pair is returned instead of a duplicate.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) ProcessVideo(c *gin.Context) {
	var req processVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	exists, err := h.users.Exists(ctx, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check user: " + err.Error(),
		})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if blog, err := h.blogs.GetByUserAndURL(ctx, req.UserID, req.YoutubeURL); err == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":  "already_processed",
			"blog_id": blog.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check existing blog: " + err.Error(),
		})
		return
	}

	if job, err := h.jobs.GetPendingByUserAndURL(ctx, req.UserID, req.YoutubeURL); err == nil {
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "in_progress",
			"task_id": job.ID,
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check pending jobs: " + err.Error(),
		})
		return
	}

	job := &domain.IngestJob{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		YoutubeURL: req.YoutubeURL,
		Status:     domain.JobStatusPending,
	}
	if err := h.jobs.Create(ctx, job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to enqueue job: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "queued",
		"task_id": job.ID,
	})
}

// GetTask handles GET /api/v1/tasks/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) GetTask(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get task: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}
