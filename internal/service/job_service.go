package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/logger"
	"github.com/akazakov/workmarket-backend/internal/models"
	"github.com/akazakov/workmarket-backend/internal/validation"
)

// JobRepository описывает зависимости JobService от слоя хранилища.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, status *models.JobStatus, limit, offset int) ([]models.Job, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Accept(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Job, error)
	Cancel(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	UpdateStatusIf(ctx context.Context, jobID uuid.UUID, from, to models.JobStatus) (*models.Job, error)
	Delete(ctx context.Context, jobID uuid.UUID) error
}

// PaymentLedger — часть платёжного слоя, нужная для автоматической выплаты
// при завершении задания.
type PaymentLedger interface {
	CreateForJob(ctx context.Context, jobID, freelancerID uuid.UUID, amount decimal.Decimal) (*models.Payment, error)
}

// Notifier доставляет событие пользователю; ошибки доставки не влияют
// на исход операции.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// JobService реализует жизненный цикл задания. Охранные проверки переходов
// живут в models.Job; сервис дополняет их атомарными обновлениями статуса
// на уровне хранилища.
type JobService struct {
	repo   JobRepository
	ledger PaymentLedger
	hub    Notifier
}

// NewJobService создаёт сервис заданий.
func NewJobService(repo JobRepository, ledger PaymentLedger) *JobService {
	return &JobService{repo: repo, ledger: ledger}
}

// SetHub подключает рассылку уведомлений.
func (s *JobService) SetHub(hub Notifier) {
	s.hub = hub
}

// CreateJobInput содержит данные нового задания.
type CreateJobInput struct {
	Actor       models.Actor
	Title       string
	Description string
	Budget      decimal.Decimal
	DeadlineAt  *time.Time
}

// UpdateJobInput содержит редактируемые поля задания.
type UpdateJobInput struct {
	Actor       models.Actor
	JobID       uuid.UUID
	Title       *string
	Description *string
	Budget      *decimal.Decimal
	DeadlineAt  *time.Time
}

// CreateJob создаёт задание в статусе pending.
func (s *JobService) CreateJob(ctx context.Context, in CreateJobInput) (*models.Job, error) {
	if in.Actor.Role != models.RoleClient && !in.Actor.IsAdmin() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "создать задание может только заказчик")
	}
	if err := validation.ValidateLength("заголовок", in.Title, validation.MinJobTitleLength, validation.MaxJobTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinJobDescriptionLength, validation.MaxJobDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBudget(in.Budget); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	job := &models.Job{
		ClientID:    in.Actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Status:      models.JobStatusPending,
		DeadlineAt:  in.DeadlineAt,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// GetJob возвращает задание по идентификатору.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// ListJobs возвращает задания с опциональным фильтром по статусу.
func (s *JobService) ListJobs(ctx context.Context, status *models.JobStatus, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, status, limit, offset)
}

// ListMyJobs возвращает задания, где пользователь — участник.
func (s *JobService) ListMyJobs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByParticipant(ctx, userID, limit, offset)
}

// AcceptJob назначает фрилансера исполнителем: pending → accepted.
func (s *JobService) AcceptJob(ctx context.Context, jobID uuid.UUID, actor models.Actor) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := job.CanAccept(actor); err != nil {
		return nil, err
	}

	// Финальное слово за условным UPDATE: при гонке двух фрилансеров
	// исполнителем станет ровно один.
	accepted, err := s.repo.Accept(ctx, jobID, actor.ID)
	if err != nil {
		return nil, err
	}

	s.notify(job.ClientID, "job.accepted", accepted)
	return accepted, nil
}

// CompleteJob завершает задание: accepted → completed. Побочный эффект —
// автоматическая выплата бюджета исполнителю через платёжный слой.
func (s *JobService) CompleteJob(ctx context.Context, jobID uuid.UUID, actor models.Actor) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := job.CanComplete(actor); err != nil {
		return nil, err
	}

	completed, err := s.repo.UpdateStatusIf(ctx, jobID, models.JobStatusAccepted, models.JobStatusCompleted)
	if err != nil {
		return nil, err
	}

	if completed.FreelancerID != nil {
		payment, err := s.ledger.CreateForJob(ctx, completed.ID, *completed.FreelancerID, completed.Budget)
		switch {
		case err == nil:
			s.notify(*completed.FreelancerID, "payment.received", payment)
		case apperror.IsConflict(err):
			// Выплата уже проведена — завершение остаётся идемпотентным.
		default:
			return nil, err
		}
		s.notify(*completed.FreelancerID, "job.completed", completed)
	}

	return completed, nil
}

// CancelJob отменяет задание из pending или accepted.
func (s *JobService) CancelJob(ctx context.Context, jobID uuid.UUID, actor models.Actor) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := job.CanCancel(actor); err != nil {
		return nil, err
	}

	cancelled, err := s.repo.Cancel(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Уведомляем второго участника.
	if actor.ID != job.ClientID {
		s.notify(job.ClientID, "job.cancelled", cancelled)
	} else if job.FreelancerID != nil {
		s.notify(*job.FreelancerID, "job.cancelled", cancelled)
	}

	return cancelled, nil
}

// UpdateJob редактирует поля задания, не связанные со статусом.
func (s *JobService) UpdateJob(ctx context.Context, in UpdateJobInput) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	if err := job.CanUpdate(in.Actor); err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := validation.ValidateLength("заголовок", *in.Title, validation.MinJobTitleLength, validation.MaxJobTitleLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		job.Title = *in.Title
	}
	if in.Description != nil {
		if err := validation.ValidateLength("описание", *in.Description, validation.MinJobDescriptionLength, validation.MaxJobDescriptionLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		job.Description = *in.Description
	}
	if in.Budget != nil {
		if err := validation.ValidateBudget(*in.Budget); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		job.Budget = *in.Budget
	}
	if in.DeadlineAt != nil {
		job.DeadlineAt = in.DeadlineAt
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// DeleteJob удаляет задание вместе с зависимыми сущностями.
func (s *JobService) DeleteJob(ctx context.Context, jobID uuid.UUID, actor models.Actor) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	if err := job.CanDelete(actor); err != nil {
		return err
	}

	return s.repo.Delete(ctx, jobID)
}

// notify отправляет событие пользователю, если hub подключён.
func (s *JobService) notify(userID uuid.UUID, event string, data any) {
	if s.hub == nil {
		return
	}
	if err := s.hub.BroadcastToUser(userID, event, data); err != nil {
		logger.WithComponent("job").WithField("event", event).
			Warnf("не удалось отправить уведомление: %v", err)
	}
}
