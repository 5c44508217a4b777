package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв заказчика о выполненном задании.
// Отзыв 1:1 с заданием — уникальность job_id гарантирует база.
type Review struct {
	ID           uuid.UUID `db:"id" json:"id"`
	JobID        uuid.UUID `db:"job_id" json:"job_id"`
	FreelancerID uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FreelancerRating агрегат рейтинга фрилансера, считается на чтении.
type FreelancerRating struct {
	AverageRating float64 `db:"average_rating" json:"average_rating"`
	TotalReviews  int     `db:"total_reviews" json:"total_reviews"`
}
