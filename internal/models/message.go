package models

import (
	"time"

	"github.com/google/uuid"
)

// Message описывает сообщение в обсуждении задания.
// Сообщения неизменяемы после создания; удалить может автор или администратор.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	JobID     uuid.UUID `db:"job_id" json:"job_id"`
	SenderID  uuid.UUID `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CanDeleteBy проверяет право удалить сообщение.
func (m *Message) CanDeleteBy(actor Actor) bool {
	return actor.IsAdmin() || m.SenderID == actor.ID
}
