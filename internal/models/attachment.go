package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment описывает файл, прикреплённый к заданию
// (бриф заказчика или результат работы исполнителя).
type Attachment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	JobID      uuid.UUID `db:"job_id" json:"job_id"`
	UploaderID uuid.UUID `db:"uploader_id" json:"uploader_id"`
	FileName   string    `db:"file_name" json:"file_name"`
	FilePath   string    `db:"file_path" json:"-"`
	FileType   string    `db:"file_type" json:"file_type"`
	FileSize   int64     `db:"file_size" json:"file_size"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CanDeleteBy проверяет право удалить вложение.
func (a *Attachment) CanDeleteBy(actor Actor) bool {
	return actor.IsAdmin() || a.UploaderID == actor.ID
}
