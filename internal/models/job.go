package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akazakov/workmarket-backend/internal/apperror"
)

// Job описывает задание, размещённое клиентом.
// Статус монотонен: pending → accepted → completed, cancelled достижим
// из pending и accepted. freelancer_id выставляется ровно один раз,
// при переходе pending → accepted.
type Job struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	FreelancerID *uuid.UUID      `db:"freelancer_id" json:"freelancer_id,omitempty"`
	Title        string          `db:"title" json:"title"`
	Description  string          `db:"description" json:"description"`
	Budget       decimal.Decimal `db:"budget" json:"budget"`
	Status       JobStatus       `db:"status" json:"status"`
	DeadlineAt   *time.Time      `db:"deadline_at" json:"deadline_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// IsOwner проверяет, что пользователь — клиент, создавший задание.
func (j *Job) IsOwner(userID uuid.UUID) bool {
	return j.ClientID == userID
}

// IsAssignee проверяет, что пользователь — назначенный исполнитель.
func (j *Job) IsAssignee(userID uuid.UUID) bool {
	return j.FreelancerID != nil && *j.FreelancerID == userID
}

// IsParticipant проверяет, что пользователь — участник задания
// (клиент или назначенный исполнитель).
func (j *Job) IsParticipant(userID uuid.UUID) bool {
	return j.IsOwner(userID) || j.IsAssignee(userID)
}

// IsAdminOrOwner проверяет право управлять заданием.
func (j *Job) IsAdminOrOwner(actor Actor) bool {
	return actor.IsAdmin() || j.IsOwner(actor.ID)
}

// Ниже — охранные проверки переходов жизненного цикла. Каждая проверка
// чистая: смотрит на текущее состояние и актёра, возвращает nil либо
// конкретную ошибку. Forbidden (актёр не подходит) и InvalidState
// (статус не подходит) всегда различимы.

// CanAccept проверяет переход pending → accepted.
func (j *Job) CanAccept(actor Actor) error {
	if actor.Role != RoleFreelancer {
		return apperror.New(apperror.ErrCodeForbidden, "принять задание может только фрилансер")
	}
	if j.IsOwner(actor.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "нельзя принять собственное задание")
	}
	if j.Status != JobStatusPending {
		return apperror.New(apperror.ErrCodeInvalidState, "принять можно только задание в статусе pending")
	}
	return nil
}

// CanComplete проверяет переход accepted → completed.
func (j *Job) CanComplete(actor Actor) error {
	if !j.IsAdminOrOwner(actor) {
		return apperror.New(apperror.ErrCodeForbidden, "завершить задание может только заказчик или администратор")
	}
	if j.Status != JobStatusAccepted {
		return apperror.New(apperror.ErrCodeInvalidState, "завершить можно только задание в статусе accepted")
	}
	return nil
}

// CanCancel проверяет переход в cancelled из pending или accepted.
func (j *Job) CanCancel(actor Actor) error {
	if !actor.IsAdmin() && !j.IsParticipant(actor.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "отменить задание может только участник или администратор")
	}
	if j.Status.Terminal() {
		return apperror.New(apperror.ErrCodeInvalidState, "отменить можно только задание в статусе pending или accepted")
	}
	return nil
}

// CanUpdate проверяет право редактировать title/description/deadline.
func (j *Job) CanUpdate(actor Actor) error {
	if !j.IsAdminOrOwner(actor) {
		return apperror.New(apperror.ErrCodeForbidden, "редактировать задание может только заказчик или администратор")
	}
	return nil
}

// CanDelete проверяет право удалить задание вместе с зависимыми сущностями.
func (j *Job) CanDelete(actor Actor) error {
	if !j.IsAdminOrOwner(actor) {
		return apperror.New(apperror.ErrCodeForbidden, "удалить задание может только заказчик или администратор")
	}
	return nil
}
