package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
	"github.com/akazakov/workmarket-backend/internal/validation"
)

// ReviewRepository описывает зависимости ReviewService от слоя хранилища.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Review, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error)
	GetFreelancerRating(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerRating, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobRepoForReview — доступ на чтение заданий из сервиса отзывов.
type JobRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// ReviewService реализует правила допуска отзывов: один отзыв на задание,
// только от заказчика, только после завершения.
type ReviewService struct {
	repo ReviewRepository
	jobs JobRepoForReview
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewRepository, jobs JobRepoForReview) *ReviewService {
	return &ReviewService{repo: repo, jobs: jobs}
}

// CreateReview создаёт отзыв по завершённому заданию.
func (s *ReviewService) CreateReview(ctx context.Context, jobID uuid.UUID, actor models.Actor, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if comment != nil {
		if err := validation.ValidateLength("комментарий", *comment, 0, validation.MaxReviewCommentLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsOwner(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отзыв может оставить только заказчик задания")
	}
	if job.Status != models.JobStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "отзыв можно оставить только после завершения задания")
	}
	if job.FreelancerID == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "у задания нет исполнителя")
	}

	review := &models.Review{
		JobID:        jobID,
		FreelancerID: *job.FreelancerID,
		Rating:       rating,
		Comment:      comment,
	}

	// Дубликат ловится unique(job_id) в репозитории и приходит как Conflict.
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// UpdateReview меняет оценку или комментарий. Доступно заказчику задания
// и администратору.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID uuid.UUID, actor models.Actor, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.checkReviewOwner(ctx, review, actor); err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview удаляет отзыв. Доступно заказчику задания и администратору.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID uuid.UUID, actor models.Actor) error {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := s.checkReviewOwner(ctx, review, actor); err != nil {
		return err
	}

	return s.repo.Delete(ctx, reviewID)
}

// GetJobReview возвращает отзыв по заданию.
func (s *ReviewService) GetJobReview(ctx context.Context, jobID uuid.UUID) (*models.Review, error) {
	return s.repo.GetByJobID(ctx, jobID)
}

// ListFreelancerReviews возвращает отзывы о фрилансере.
func (s *ReviewService) ListFreelancerReviews(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByFreelancer(ctx, freelancerID, limit, offset)
}

// GetFreelancerRating возвращает средний рейтинг и количество отзывов.
func (s *ReviewService) GetFreelancerRating(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerRating, error) {
	return s.repo.GetFreelancerRating(ctx, freelancerID)
}

// checkReviewOwner проверяет, что актёр — заказчик задания отзыва или
// администратор.
func (s *ReviewService) checkReviewOwner(ctx context.Context, review *models.Review, actor models.Actor) error {
	if actor.IsAdmin() {
		return nil
	}

	job, err := s.jobs.GetByID(ctx, review.JobID)
	if err != nil {
		return err
	}
	if !job.IsOwner(actor.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "изменять отзыв может только заказчик задания или администратор")
	}
	return nil
}
