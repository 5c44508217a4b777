package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/http/handlers/common"
	"github.com/akazakov/workmarket-backend/internal/models"
	"github.com/akazakov/workmarket-backend/internal/service"
)

// JobHandler предоставляет HTTP слой для заданий и их жизненного цикла.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт хэндлер.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// CreateJob обрабатывает POST /jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description" binding:"required"`
		Budget      string     `json:"budget" binding:"required"`
		DeadlineAt  *time.Time `json:"deadline_at"`
	}

	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	budget, err := decimal.NewFromString(req.Budget)
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "бюджет должен быть десятичным числом"))
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), service.CreateJobInput{
		Actor:       actor,
		Title:       req.Title,
		Description: req.Description,
		Budget:      budget,
		DeadlineAt:  req.DeadlineAt,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// ListJobs обрабатывает GET /jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	var status *models.JobStatus
	if raw := c.Query("status"); raw != "" {
		s := models.JobStatus(raw)
		if !s.Valid() {
			common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "неизвестный статус задания"))
			return
		}
		status = &s
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), status, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "limit": limit, "offset": offset})
}

// ListMyJobs обрабатывает GET /jobs/my.
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	jobs, err := h.jobs.ListMyJobs(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "limit": limit, "offset": offset})
}

// GetJob обрабатывает GET /jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob обрабатывает PUT /jobs/:id.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Budget      *string    `json:"budget"`
		DeadlineAt  *time.Time `json:"deadline_at"`
	}

	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	in := service.UpdateJobInput{
		Actor:       actor,
		JobID:       jobID,
		Title:       req.Title,
		Description: req.Description,
		DeadlineAt:  req.DeadlineAt,
	}
	if req.Budget != nil {
		budget, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			common.AbortWithError(c, apperror.New(apperror.ErrCodeValidation, "бюджет должен быть десятичным числом"))
			return
		}
		in.Budget = &budget
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), in)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// AcceptJob обрабатывает POST /jobs/:id/accept.
func (h *JobHandler) AcceptJob(c *gin.Context) {
	h.lifecycle(c, h.jobs.AcceptJob)
}

// CompleteJob обрабатывает POST /jobs/:id/complete.
func (h *JobHandler) CompleteJob(c *gin.Context) {
	h.lifecycle(c, h.jobs.CompleteJob)
}

// CancelJob обрабатывает POST /jobs/:id/cancel.
func (h *JobHandler) CancelJob(c *gin.Context) {
	h.lifecycle(c, h.jobs.CancelJob)
}

// DeleteJob обрабатывает DELETE /jobs/:id.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	if err := h.jobs.DeleteJob(c.Request.Context(), jobID, actor); err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "задание удалено"})
}

func (h *JobHandler) lifecycle(c *gin.Context, op func(ctx context.Context, jobID uuid.UUID, actor models.Actor) (*models.Job, error)) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	job, err := op(c.Request.Context(), jobID, actor)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}
