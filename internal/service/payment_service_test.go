package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
)

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) CreateForJob(ctx context.Context, jobID, freelancerID uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	args := m.Called(ctx, jobID, freelancerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *mockPaymentRepo) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPaymentRepo) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, cardLast4 *string) (*models.Withdrawal, error) {
	args := m.Called(ctx, userID, amount, cardLast4)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockPaymentRepo) ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

func completedJob(clientID, freelancerID uuid.UUID, budget decimal.Decimal) *models.Job {
	return &models.Job{
		ID:           uuid.New(),
		ClientID:     clientID,
		FreelancerID: &freelancerID,
		Budget:       budget,
		Status:       models.JobStatusCompleted,
	}
}

func TestPaymentService_ProcessPayment_Success(t *testing.T) {
	repo := new(mockPaymentRepo)
	jobs := new(mockJobRepo)
	svc := NewPaymentService(repo, jobs)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	budget := decimal.NewFromInt(7000)
	job := completedJob(clientID, freelancerID, budget)
	payment := &models.Payment{ID: uuid.New(), JobID: job.ID, Amount: budget}

	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	repo.On("CreateForJob", ctx, job.ID, freelancerID, budget).Return(payment, nil)

	got, err := svc.ProcessPayment(ctx, job.ID, models.Actor{ID: clientID, Role: models.RoleClient})
	assert.NoError(t, err)
	assert.Equal(t, payment, got)
	repo.AssertExpectations(t)
}

func TestPaymentService_ProcessPayment_Duplicate(t *testing.T) {
	repo := new(mockPaymentRepo)
	jobs := new(mockJobRepo)
	svc := NewPaymentService(repo, jobs)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	budget := decimal.NewFromInt(7000)
	job := completedJob(clientID, freelancerID, budget)

	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	repo.On("CreateForJob", ctx, job.ID, freelancerID, budget).Return(nil, apperror.ErrPaymentExists)

	_, err := svc.ProcessPayment(ctx, job.ID, models.Actor{ID: clientID, Role: models.RoleClient})
	assert.True(t, apperror.IsConflict(err))
}

func TestPaymentService_ProcessPayment_FreelancerForbidden(t *testing.T) {
	repo := new(mockPaymentRepo)
	jobs := new(mockJobRepo)
	svc := NewPaymentService(repo, jobs)
	ctx := context.Background()

	freelancerID := uuid.New()
	job := completedJob(uuid.New(), freelancerID, decimal.NewFromInt(100))
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.ProcessPayment(ctx, job.ID, models.Actor{ID: freelancerID, Role: models.RoleFreelancer})
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "CreateForJob")
}

func TestPaymentService_ProcessPayment_NotCompleted(t *testing.T) {
	repo := new(mockPaymentRepo)
	jobs := new(mockJobRepo)
	svc := NewPaymentService(repo, jobs)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	job := completedJob(clientID, freelancerID, decimal.NewFromInt(100))
	job.Status = models.JobStatusAccepted
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.ProcessPayment(ctx, job.ID, models.Actor{ID: clientID, Role: models.RoleClient})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestPaymentService_Withdraw_Success(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo, nil)
	ctx := context.Background()

	freelancer := models.Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	amount := decimal.NewFromInt(3000)
	withdrawal := &models.Withdrawal{ID: uuid.New(), UserID: freelancer.ID, Amount: amount}

	repo.On("Withdraw", ctx, freelancer.ID, amount, (*string)(nil)).Return(withdrawal, nil)

	got, err := svc.Withdraw(ctx, freelancer, amount, nil)
	assert.NoError(t, err)
	assert.Equal(t, withdrawal, got)
}

func TestPaymentService_Withdraw_ClientForbidden(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo, nil)

	_, err := svc.Withdraw(context.Background(), models.Actor{ID: uuid.New(), Role: models.RoleClient}, decimal.NewFromInt(100), nil)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Withdraw")
}

func TestPaymentService_Withdraw_NonPositiveAmount(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo, nil)
	freelancer := models.Actor{ID: uuid.New(), Role: models.RoleFreelancer}

	_, err := svc.Withdraw(context.Background(), freelancer, decimal.Zero, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Withdraw(context.Background(), freelancer, decimal.NewFromInt(-50), nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestPaymentService_Withdraw_InsufficientFunds(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo, nil)
	ctx := context.Background()

	freelancer := models.Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	amount := decimal.NewFromInt(1000000)
	repo.On("Withdraw", ctx, freelancer.ID, amount, (*string)(nil)).Return(nil, apperror.ErrInsufficientFunds)

	_, err := svc.Withdraw(ctx, freelancer, amount, nil)
	assert.True(t, apperror.IsInsufficientFunds(err))
}

func TestPaymentService_GetJobPayment_StrangerForbidden(t *testing.T) {
	repo := new(mockPaymentRepo)
	jobs := new(mockJobRepo)
	svc := NewPaymentService(repo, jobs)
	ctx := context.Background()

	job := completedJob(uuid.New(), uuid.New(), decimal.NewFromInt(100))
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.GetJobPayment(ctx, job.ID, models.Actor{ID: uuid.New(), Role: models.RoleFreelancer})
	assert.True(t, apperror.IsForbidden(err))
}

func TestPaymentService_GetBalance(t *testing.T) {
	repo := new(mockPaymentRepo)
	svc := NewPaymentService(repo, nil)
	ctx := context.Background()

	userID := uuid.New()
	repo.On("GetBalance", ctx, userID).Return(decimal.NewFromInt(4200), nil)

	balance, err := svc.GetBalance(ctx, userID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(4200)))
}
