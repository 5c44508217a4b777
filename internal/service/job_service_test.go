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

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) List(ctx context.Context, status *models.JobStatus, limit, offset int) ([]models.Job, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobRepo) ListByParticipant(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Job, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobRepo) Update(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *mockJobRepo) Accept(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) Cancel(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) UpdateStatusIf(ctx context.Context, jobID uuid.UUID, from, to models.JobStatus) (*models.Job, error) {
	args := m.Called(ctx, jobID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobRepo) Delete(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) CreateForJob(ctx context.Context, jobID, freelancerID uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	args := m.Called(ctx, jobID, freelancerID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func TestJobService_CreateJob_Success(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	client := models.Actor{ID: uuid.New(), Role: models.RoleClient}
	repo.On("Create", ctx, mock.AnythingOfType("*models.Job")).Return(nil)

	job, err := svc.CreateJob(ctx, CreateJobInput{
		Actor:       client,
		Title:       "Вёрстка лендинга",
		Description: "Нужно сверстать лендинг по готовому макету в Figma.",
		Budget:      decimal.NewFromInt(15000),
	})
	assert.NoError(t, err)
	assert.Equal(t, client.ID, job.ClientID)
	assert.Equal(t, models.JobStatusPending, job.Status)
	repo.AssertExpectations(t)
}

func TestJobService_CreateJob_FreelancerForbidden(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)

	_, err := svc.CreateJob(context.Background(), CreateJobInput{
		Actor:       models.Actor{ID: uuid.New(), Role: models.RoleFreelancer},
		Title:       "Вёрстка лендинга",
		Description: "Нужно сверстать лендинг по готовому макету в Figma.",
		Budget:      decimal.NewFromInt(15000),
	})
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Create")
}

func TestJobService_CreateJob_InvalidBudget(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)

	_, err := svc.CreateJob(context.Background(), CreateJobInput{
		Actor:       models.Actor{ID: uuid.New(), Role: models.RoleClient},
		Title:       "Вёрстка лендинга",
		Description: "Нужно сверстать лендинг по готовому макету в Figma.",
		Budget:      decimal.Zero,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestJobService_AcceptJob_Success(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	freelancer := models.Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	pending := &models.Job{ID: jobID, ClientID: uuid.New(), Status: models.JobStatusPending}
	accepted := &models.Job{ID: jobID, ClientID: pending.ClientID, FreelancerID: &freelancer.ID, Status: models.JobStatusAccepted}

	repo.On("GetByID", ctx, jobID).Return(pending, nil)
	repo.On("Accept", ctx, jobID, freelancer.ID).Return(accepted, nil)

	job, err := svc.AcceptJob(ctx, jobID, freelancer)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusAccepted, job.Status)
	assert.Equal(t, freelancer.ID, *job.FreelancerID)
	repo.AssertExpectations(t)
}

func TestJobService_AcceptJob_ClientForbidden(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	pending := &models.Job{ID: jobID, ClientID: uuid.New(), Status: models.JobStatusPending}
	repo.On("GetByID", ctx, jobID).Return(pending, nil)

	_, err := svc.AcceptJob(ctx, jobID, models.Actor{ID: uuid.New(), Role: models.RoleClient})
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Accept")
}

func TestJobService_AcceptJob_RaceLoser(t *testing.T) {
	// Проверка в памяти прошла по устаревшему снимку, но условный UPDATE
	// никого не нашёл: второй фрилансер получает InvalidState.
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	freelancer := models.Actor{ID: uuid.New(), Role: models.RoleFreelancer}
	pending := &models.Job{ID: jobID, ClientID: uuid.New(), Status: models.JobStatusPending}

	repo.On("GetByID", ctx, jobID).Return(pending, nil)
	repo.On("Accept", ctx, jobID, freelancer.ID).
		Return(nil, apperror.New(apperror.ErrCodeInvalidState, "принять можно только задание в статусе pending"))

	_, err := svc.AcceptJob(ctx, jobID, freelancer)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestJobService_CompleteJob_PaysFreelancer(t *testing.T) {
	repo := new(mockJobRepo)
	ledger := new(mockLedger)
	svc := NewJobService(repo, ledger)
	ctx := context.Background()

	jobID := uuid.New()
	clientID := uuid.New()
	freelancerID := uuid.New()
	budget := decimal.NewFromInt(15000)

	accepted := &models.Job{ID: jobID, ClientID: clientID, FreelancerID: &freelancerID, Budget: budget, Status: models.JobStatusAccepted}
	completed := &models.Job{ID: jobID, ClientID: clientID, FreelancerID: &freelancerID, Budget: budget, Status: models.JobStatusCompleted}
	payment := &models.Payment{ID: uuid.New(), JobID: jobID, Amount: budget}

	repo.On("GetByID", ctx, jobID).Return(accepted, nil)
	repo.On("UpdateStatusIf", ctx, jobID, models.JobStatusAccepted, models.JobStatusCompleted).Return(completed, nil)
	ledger.On("CreateForJob", ctx, jobID, freelancerID, budget).Return(payment, nil)

	job, err := svc.CompleteJob(ctx, jobID, models.Actor{ID: clientID, Role: models.RoleClient})
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	ledger.AssertExpectations(t)
}

func TestJobService_CompleteJob_PaymentConflictIgnored(t *testing.T) {
	// Повторная выплата отбита уникальным ограничением: завершение
	// остаётся успешным и идемпотентным.
	repo := new(mockJobRepo)
	ledger := new(mockLedger)
	svc := NewJobService(repo, ledger)
	ctx := context.Background()

	jobID := uuid.New()
	clientID := uuid.New()
	freelancerID := uuid.New()
	budget := decimal.NewFromInt(500)

	accepted := &models.Job{ID: jobID, ClientID: clientID, FreelancerID: &freelancerID, Budget: budget, Status: models.JobStatusAccepted}
	completed := &models.Job{ID: jobID, ClientID: clientID, FreelancerID: &freelancerID, Budget: budget, Status: models.JobStatusCompleted}

	repo.On("GetByID", ctx, jobID).Return(accepted, nil)
	repo.On("UpdateStatusIf", ctx, jobID, models.JobStatusAccepted, models.JobStatusCompleted).Return(completed, nil)
	ledger.On("CreateForJob", ctx, jobID, freelancerID, budget).Return(nil, apperror.ErrPaymentExists)

	job, err := svc.CompleteJob(ctx, jobID, models.Actor{ID: clientID, Role: models.RoleClient})
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
}

func TestJobService_CompleteJob_FreelancerForbidden(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	freelancerID := uuid.New()
	accepted := &models.Job{ID: jobID, ClientID: uuid.New(), FreelancerID: &freelancerID, Status: models.JobStatusAccepted}
	repo.On("GetByID", ctx, jobID).Return(accepted, nil)

	_, err := svc.CompleteJob(ctx, jobID, models.Actor{ID: freelancerID, Role: models.RoleFreelancer})
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "UpdateStatusIf")
}

func TestJobService_CancelJob_ByFreelancer(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	freelancerID := uuid.New()
	accepted := &models.Job{ID: jobID, ClientID: uuid.New(), FreelancerID: &freelancerID, Status: models.JobStatusAccepted}
	cancelled := &models.Job{ID: jobID, ClientID: accepted.ClientID, FreelancerID: &freelancerID, Status: models.JobStatusCancelled}

	repo.On("GetByID", ctx, jobID).Return(accepted, nil)
	repo.On("Cancel", ctx, jobID).Return(cancelled, nil)

	job, err := svc.CancelJob(ctx, jobID, models.Actor{ID: freelancerID, Role: models.RoleFreelancer})
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, job.Status)
}

func TestJobService_CancelJob_Completed(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	clientID := uuid.New()
	completed := &models.Job{ID: jobID, ClientID: clientID, Status: models.JobStatusCompleted}
	repo.On("GetByID", ctx, jobID).Return(completed, nil)

	_, err := svc.CancelJob(ctx, jobID, models.Actor{ID: clientID, Role: models.RoleClient})
	assert.True(t, apperror.IsInvalidState(err))
	repo.AssertNotCalled(t, "Cancel")
}

func TestJobService_GetJob_NotFound(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	repo.On("GetByID", ctx, jobID).Return(nil, apperror.ErrJobNotFound)

	_, err := svc.GetJob(ctx, jobID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestJobService_UpdateJob_StrangerForbidden(t *testing.T) {
	repo := new(mockJobRepo)
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	jobID := uuid.New()
	pending := &models.Job{ID: jobID, ClientID: uuid.New(), Status: models.JobStatusPending}
	repo.On("GetByID", ctx, jobID).Return(pending, nil)

	title := "Новый заголовок"
	_, err := svc.UpdateJob(ctx, UpdateJobInput{
		Actor: models.Actor{ID: uuid.New(), Role: models.RoleClient},
		JobID: jobID,
		Title: &title,
	})
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Update")
}
