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

// JobRepository отвечает за хранение заданий.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository создаёт новый экземпляр.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create сохраняет новое задание в статусе pending.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (client_id, title, description, budget, status, deadline_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		job.ClientID, job.Title, job.Description, job.Budget, job.Status, job.DeadlineAt).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}
	return nil
}

// GetByID возвращает задание по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return common.GetByID[models.Job](ctx, r.db, "jobs", id, apperror.ErrJobNotFound)
}

// List возвращает задания с опциональным фильтром по статусу.
func (r *JobRepository) List(ctx context.Context, status *models.JobStatus, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	if status != nil {
		err := r.db.SelectContext(ctx, &jobs, `
			SELECT * FROM jobs WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, *status, limit, offset)
		return jobs, err
	}
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	return jobs, err
}

// ListByParticipant возвращает задания, где пользователь — заказчик или исполнитель.
func (r *JobRepository) ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs
		WHERE client_id = $1 OR freelancer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return jobs, err
}

// Update обновляет редактируемые поля задания.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, budget = $4, deadline_at = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		job.ID, job.Title, job.Description, job.Budget, job.DeadlineAt).
		Scan(&job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("job repository: update %w", err)
	}
	return nil
}

// Accept атомарно переводит задание pending → accepted и назначает
// исполнителя. Условие по статусу входит в сам UPDATE: из конкурентных
// принятий одного задания побеждает ровно одно, остальные получают
// InvalidState по нулевому числу затронутых строк.
func (r *JobRepository) Accept(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Job, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $3, freelancer_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND freelancer_id IS NULL
	`, jobID, freelancerID, models.JobStatusAccepted, models.JobStatusPending)
	if err != nil {
		return nil, fmt.Errorf("job repository: accept %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "принять можно только задание в статусе pending")
	}

	return r.GetByID(ctx, jobID)
}

// UpdateStatusIf атомарно переводит задание из from в to. Возвращает
// InvalidState, если статус успел измениться между проверкой и записью.
func (r *JobRepository) UpdateStatusIf(ctx context.Context, jobID uuid.UUID, from, to models.JobStatus) (*models.Job, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2
	`, jobID, from, to)
	if err != nil {
		return nil, fmt.Errorf("job repository: update status %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("задание не в статусе %s", from))
	}

	return r.GetByID(ctx, jobID)
}

// Cancel переводит задание в cancelled из pending или accepted. Конечные
// статусы условие UPDATE не пропускает, повторная отмена тоже получает
// InvalidState.
func (r *JobRepository) Cancel(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ($3, $4)
	`, jobID, models.JobStatusCancelled, models.JobStatusPending, models.JobStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("job repository: cancel %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "отменить можно только задание в статусе pending или accepted")
	}

	return r.GetByID(ctx, jobID)
}

// Delete удаляет задание; сообщения, отзыв, платёж и вложения уходят
// каскадом по внешним ключам.
func (r *JobRepository) Delete(ctx context.Context, jobID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("job repository: delete %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.ErrJobNotFound
	}
	return nil
}
