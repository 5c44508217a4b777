package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
	"github.com/akazakov/workmarket-backend/internal/repository/common"
)

// ReviewRepository отвечает за отзывы.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт новый экземпляр.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв. Повторный отзыв по тому же заданию упирается
// в unique(job_id) и возвращается как Conflict независимо от порядка
// конкурентных запросов.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (job_id, freelancer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		review.JobID, review.FreelancerID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return apperror.ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отзыв по идентификатору.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return common.GetByID[models.Review](ctx, r.db, "reviews", id, apperror.ErrReviewNotFound)
}

// GetByJobID возвращает отзыв по заданию.
func (r *ReviewRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Review, error) {
	return common.GetByField[models.Review](ctx, r.db, "reviews", "job_id", jobID, apperror.ErrReviewNotFound)
}

// ListByFreelancer возвращает отзывы о фрилансере.
func (r *ReviewRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, freelancerID, limit, offset)
	return reviews, err
}

// GetFreelancerRating возвращает средний рейтинг и количество отзывов.
func (r *ReviewRepository) GetFreelancerRating(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerRating, error) {
	var rating models.FreelancerRating
	err := r.db.GetContext(ctx, &rating, `
		SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews
		FROM reviews WHERE freelancer_id = $1
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("review repository: get rating %w", err)
	}
	return &rating, nil
}

// Update обновляет оценку и комментарий отзыва.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	query := `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, review.ID, review.Rating, review.Comment).Scan(&review.UpdatedAt); err != nil {
		return fmt.Errorf("review repository: update %w", err)
	}
	return nil
}

// Delete удаляет отзыв.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("review repository: delete %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.ErrReviewNotFound
	}
	return nil
}
