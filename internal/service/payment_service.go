package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
)

// PaymentRepository описывает зависимости PaymentService от слоя хранилища.
type PaymentRepository interface {
	CreateForJob(ctx context.Context, jobID, freelancerID uuid.UUID, amount decimal.Decimal) (*models.Payment, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, cardLast4 *string) (*models.Withdrawal, error)
	ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error)
}

// JobRepoForPayment — доступ на чтение заданий из платёжного сервиса.
type JobRepoForPayment interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// PaymentService реализует правила платёжной книги: когда допустима выплата
// по заданию и как меняются балансы. Сами мутации делегируются атомарным
// запросам репозитория.
type PaymentService struct {
	repo PaymentRepository
	jobs JobRepoForPayment
}

// NewPaymentService создаёт платёжный сервис.
func NewPaymentService(repo PaymentRepository, jobs JobRepoForPayment) *PaymentService {
	return &PaymentService{repo: repo, jobs: jobs}
}

// ProcessPayment проводит выплату по завершённому заданию. Допустима только
// для заказчика или администратора, ровно один раз: повторный вызов
// заканчивается Conflict независимо от порядка конкурентных запросов.
func (s *PaymentService) ProcessPayment(ctx context.Context, jobID uuid.UUID, actor models.Actor) (*models.Payment, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsAdminOrOwner(actor) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "провести оплату может только заказчик или администратор")
	}
	if job.Status != models.JobStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "оплатить можно только завершённое задание")
	}
	if job.FreelancerID == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "у задания нет исполнителя")
	}

	return s.repo.CreateForJob(ctx, job.ID, *job.FreelancerID, job.Budget)
}

// GetJobPayment возвращает платёж по заданию; доступен участникам и администратору.
func (s *PaymentService) GetJobPayment(ctx context.Context, jobID uuid.UUID, actor models.Actor) (*models.Payment, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !job.IsParticipant(actor.ID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "платёж доступен только участникам задания")
	}
	return s.repo.GetByJobID(ctx, jobID)
}

// GetBalance возвращает баланс пользователя.
func (s *PaymentService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Withdraw списывает средства с баланса фрилансера. Достаточность средств
// проверяет условный UPDATE в репозитории — баланс не может уйти в минус
// даже под конкурентными списаниями.
func (s *PaymentService) Withdraw(ctx context.Context, actor models.Actor, amount decimal.Decimal, cardLast4 *string) (*models.Withdrawal, error) {
	if actor.Role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbidden, "вывод средств доступен только фрилансерам")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}

	return s.repo.Withdraw(ctx, actor.ID, amount, cardLast4)
}

// ListPayments возвращает полученные пользователем выплаты.
func (s *PaymentService) ListPayments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListWithdrawals возвращает заявки пользователя на вывод средств.
func (s *PaymentService) ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListWithdrawals(ctx, userID, limit, offset)
}
