package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akazakov/workmarket-backend/internal/http/handlers/common"
	"github.com/akazakov/workmarket-backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой для отзывов о выполненных заданиях.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReview обрабатывает POST /jobs/:id/review.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
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
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}

	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), jobID, actor, req.Rating, req.Comment)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetJobReview обрабатывает GET /jobs/:id/review.
func (h *ReviewHandler) GetJobReview(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	review, err := h.reviews.GetJobReview(c.Request.Context(), jobID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// UpdateReview обрабатывает PUT /reviews/:id.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}

	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), reviewID, actor, req.Rating, req.Comment)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview обрабатывает DELETE /reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), reviewID, actor); err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "отзыв удалён"})
}

// ListFreelancerReviews обрабатывает GET /users/:id/reviews.
func (h *ReviewHandler) ListFreelancerReviews(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	reviews, err := h.reviews.ListFreelancerReviews(c.Request.Context(), freelancerID, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	rating, err := h.reviews.GetFreelancerRating(c.Request.Context(), freelancerID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"rating":  rating,
		"limit":   limit,
		"offset":  offset,
	})
}
