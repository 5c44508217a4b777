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

// AttachmentRepository отвечает за метаданные файлов заданий.
type AttachmentRepository struct {
	db *sqlx.DB
}

// NewAttachmentRepository создаёт новый экземпляр.
func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create сохраняет метаданные вложения.
func (r *AttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (job_id, uploader_id, file_name, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		attachment.JobID, attachment.UploaderID, attachment.FileName,
		attachment.FilePath, attachment.FileType, attachment.FileSize).
		Scan(&attachment.ID, &attachment.CreatedAt)
	if err != nil {
		return fmt.Errorf("attachment repository: create %w", err)
	}
	return nil
}

// GetByID возвращает вложение по идентификатору.
func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	return common.GetByID[models.Attachment](ctx, r.db, "attachments", id, apperror.ErrAttachmentNotFound)
}

// ListByJob возвращает вложения задания.
func (r *AttachmentRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.SelectContext(ctx, &attachments, `
		SELECT * FROM attachments WHERE job_id = $1 ORDER BY created_at
	`, jobID)
	return attachments, err
}

// Delete удаляет метаданные вложения.
func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("attachment repository: delete %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.ErrAttachmentNotFound
	}
	return nil
}
