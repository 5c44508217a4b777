package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/logger"
	"github.com/akazakov/workmarket-backend/internal/models"
	"github.com/akazakov/workmarket-backend/internal/validation"
)

// MessageRepository описывает зависимости MessageService от слоя хранилища.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]models.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobRepoForMessage — доступ на чтение заданий из сервиса сообщений.
type JobRepoForMessage interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// MessageService реализует доступ к обсуждению задания: читать и писать
// могут только участники и администратор.
type MessageService struct {
	repo MessageRepository
	jobs JobRepoForMessage
	hub  Notifier
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(repo MessageRepository, jobs JobRepoForMessage) *MessageService {
	return &MessageService{repo: repo, jobs: jobs}
}

// SetHub подключает рассылку уведомлений.
func (s *MessageService) SetHub(hub Notifier) {
	s.hub = hub
}

// ListMessages возвращает сообщения задания.
func (s *MessageService) ListMessages(ctx context.Context, jobID uuid.UUID, actor models.Actor, limit, offset int) ([]models.Message, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !job.IsParticipant(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "сообщения доступны только участникам задания")
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByJob(ctx, jobID, limit, offset)
}

// PostMessage отправляет сообщение в обсуждение задания.
func (s *MessageService) PostMessage(ctx context.Context, jobID uuid.UUID, actor models.Actor, content string) (*models.Message, error) {
	if err := validation.ValidateLength("сообщение", content, validation.MinMessageLength, validation.MaxMessageLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !job.IsParticipant(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "писать в обсуждение могут только участники задания")
	}

	message := &models.Message{
		JobID:    jobID,
		SenderID: actor.ID,
		Content:  content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Уведомляем второго участника.
	if s.hub != nil {
		recipient := job.ClientID
		if actor.ID == job.ClientID && job.FreelancerID != nil {
			recipient = *job.FreelancerID
		}
		if recipient != actor.ID {
			if err := s.hub.BroadcastToUser(recipient, "message.created", message); err != nil {
				logger.WithComponent("message").Warnf("не удалось отправить уведомление: %v", err)
			}
		}
	}

	return message, nil
}

// DeleteMessage удаляет сообщение. Доступно автору и администратору.
func (s *MessageService) DeleteMessage(ctx context.Context, messageID uuid.UUID, actor models.Actor) error {
	message, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if !message.CanDeleteBy(actor) {
		return apperror.New(apperror.ErrCodeForbidden, "удалить сообщение может только автор или администратор")
	}

	return s.repo.Delete(ctx, messageID)
}
