package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/logger"
	"github.com/akazakov/workmarket-backend/internal/models"
)

// AttachmentRepository описывает хранилище метаданных вложений.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobRepoForAttachment — доступ на чтение заданий из сервиса вложений.
type JobRepoForAttachment interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// FileStore описывает файловое хранилище вложений.
type FileStore interface {
	Save(ctx context.Context, jobID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// AttachmentService управляет вложениями заданий. Загружать и смотреть
// файлы могут участники задания, удалять — автор вложения и администратор.
type AttachmentService struct {
	repo  AttachmentRepository
	jobs  JobRepoForAttachment
	files FileStore
}

// NewAttachmentService создаёт сервис вложений.
func NewAttachmentService(repo AttachmentRepository, jobs JobRepoForAttachment, files FileStore) *AttachmentService {
	return &AttachmentService{repo: repo, jobs: jobs, files: files}
}

// UploadInput содержит данные загружаемого файла.
type UploadInput struct {
	FileName string
	FileType string
	Reader   io.Reader
}

// Upload сохраняет файл и его метаданные.
func (s *AttachmentService) Upload(ctx context.Context, jobID uuid.UUID, actor models.Actor, in UploadInput) (*models.Attachment, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !job.IsParticipant(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "загружать файлы могут только участники задания")
	}

	relativePath, size, err := s.files.Save(ctx, jobID, in.FileName, in.Reader)
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		JobID:      jobID,
		UploaderID: actor.ID,
		FileName:   in.FileName,
		FilePath:   relativePath,
		FileType:   in.FileType,
		FileSize:   size,
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		// Метаданные не записались, файл на диске больше не нужен.
		if rmErr := s.files.Delete(ctx, relativePath); rmErr != nil {
			logger.WithComponent("attachment").Warnf("не удалось удалить файл %s: %v", relativePath, rmErr)
		}
		return nil, err
	}

	return attachment, nil
}

// List возвращает вложения задания.
func (s *AttachmentService) List(ctx context.Context, jobID uuid.UUID, actor models.Actor) ([]models.Attachment, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !job.IsParticipant(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "вложения доступны только участникам задания")
	}

	return s.repo.ListByJob(ctx, jobID)
}

// Get возвращает вложение с проверкой доступа.
func (s *AttachmentService) Get(ctx context.Context, attachmentID uuid.UUID, actor models.Actor) (*models.Attachment, error) {
	attachment, err := s.repo.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, attachment.JobID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !job.IsParticipant(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "вложение доступно только участникам задания")
	}

	return attachment, nil
}

// Delete удаляет вложение вместе с файлом.
func (s *AttachmentService) Delete(ctx context.Context, attachmentID uuid.UUID, actor models.Actor) error {
	attachment, err := s.repo.GetByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	if !attachment.CanDeleteBy(actor) {
		return apperror.New(apperror.ErrCodeForbidden, "удалить вложение может только автор или администратор")
	}

	if err := s.repo.Delete(ctx, attachmentID); err != nil {
		return err
	}

	if err := s.files.Delete(ctx, attachment.FilePath); err != nil {
		logger.WithComponent("attachment").Warnf("не удалось удалить файл %s: %v", attachment.FilePath, err)
	}
	return nil
}
