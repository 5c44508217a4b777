package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *mockMessageRepo) ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, jobID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMessageService_PostMessage_ByParticipant(t *testing.T) {
	repo := new(mockMessageRepo)
	jobs := new(mockJobRepo)
	svc := NewMessageService(repo, jobs)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	job := completedJob(clientID, freelancerID, decimal.NewFromInt(100))
	job.Status = models.JobStatusAccepted

	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	message, err := svc.PostMessage(ctx, job.ID, models.Actor{ID: freelancerID, Role: models.RoleFreelancer}, "Принял в работу, вопросы отправлю вечером.")
	assert.NoError(t, err)
	assert.Equal(t, freelancerID, message.SenderID)
	assert.Equal(t, job.ID, message.JobID)
}

func TestMessageService_PostMessage_StrangerForbidden(t *testing.T) {
	repo := new(mockMessageRepo)
	jobs := new(mockJobRepo)
	svc := NewMessageService(repo, jobs)
	ctx := context.Background()

	job := completedJob(uuid.New(), uuid.New(), decimal.NewFromInt(100))
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := svc.PostMessage(ctx, job.ID, models.Actor{ID: uuid.New(), Role: models.RoleFreelancer}, "Привет!")
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Create")
}

func TestMessageService_PostMessage_EmptyContent(t *testing.T) {
	repo := new(mockMessageRepo)
	jobs := new(mockJobRepo)
	svc := NewMessageService(repo, jobs)

	_, err := svc.PostMessage(context.Background(), uuid.New(), models.Actor{ID: uuid.New(), Role: models.RoleClient}, "")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.PostMessage(context.Background(), uuid.New(), models.Actor{ID: uuid.New(), Role: models.RoleClient}, strings.Repeat("а", 5001))
	assert.True(t, apperror.IsValidation(err))
	jobs.AssertNotCalled(t, "GetByID")
}

func TestMessageService_ListMessages_AdminAllowed(t *testing.T) {
	repo := new(mockMessageRepo)
	jobs := new(mockJobRepo)
	svc := NewMessageService(repo, jobs)
	ctx := context.Background()

	job := completedJob(uuid.New(), uuid.New(), decimal.NewFromInt(100))
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	repo.On("ListByJob", ctx, job.ID, 50, 0).Return([]models.Message{}, nil)

	_, err := svc.ListMessages(ctx, job.ID, models.Actor{ID: uuid.New(), Role: models.RoleAdmin}, 0, 0)
	assert.NoError(t, err)
}

func TestMessageService_DeleteMessage_OnlySenderOrAdmin(t *testing.T) {
	repo := new(mockMessageRepo)
	jobs := new(mockJobRepo)
	svc := NewMessageService(repo, jobs)
	ctx := context.Background()

	senderID := uuid.New()
	message := &models.Message{ID: uuid.New(), JobID: uuid.New(), SenderID: senderID, Content: "черновик"}
	repo.On("GetByID", ctx, message.ID).Return(message, nil)

	err := svc.DeleteMessage(ctx, message.ID, models.Actor{ID: uuid.New(), Role: models.RoleClient})
	assert.True(t, apperror.IsForbidden(err))

	repo.On("Delete", ctx, message.ID).Return(nil)
	assert.NoError(t, svc.DeleteMessage(ctx, message.ID, models.Actor{ID: senderID, Role: models.RoleFreelancer}))
	assert.NoError(t, svc.DeleteMessage(ctx, message.ID, models.Actor{ID: uuid.New(), Role: models.RoleAdmin}))
}
