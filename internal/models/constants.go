package models

// Role — закрытый набор ролей платформы.
type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// ValidRoles список валидных ролей
var ValidRoles = map[Role]struct{}{
	RoleClient:     {},
	RoleFreelancer: {},
	RoleAdmin:      {},
}

// Valid сообщает, входит ли роль в закрытый набор.
func (r Role) Valid() bool {
	_, ok := ValidRoles[r]
	return ok
}

// JobStatus статусы жизненного цикла задания.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusAccepted  JobStatus = "accepted"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ValidJobStatuses список валидных статусов заданий
var ValidJobStatuses = map[JobStatus]struct{}{
	JobStatusPending:   {},
	JobStatusAccepted:  {},
	JobStatusCompleted: {},
	JobStatusCancelled: {},
}

// Valid сообщает, входит ли статус в закрытый набор.
func (s JobStatus) Valid() bool {
	_, ok := ValidJobStatuses[s]
	return ok
}

// Terminal сообщает, является ли статус конечным.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// PaymentStatus статусы платежей
const (
	PaymentStatusCompleted = "completed"
)

// PaymentMethod способы оплаты
const (
	PaymentMethodBalance = "balance"
	PaymentMethodCard    = "card"
)

// WithdrawalStatus статусы заявок на вывод средств
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusRejected  = "rejected"
)
