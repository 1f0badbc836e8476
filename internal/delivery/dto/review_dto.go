package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateReviewRequest struct {
	DoctorID     uuid.UUID `json:"doctor_id" validate:"required"`
	ReviewerName string    `json:"reviewer_name" validate:"required,min=1,max=255"`
	Rating       int       `json:"rating" validate:"required,min=1,max=5"`
	Comment      string    `json:"comment" validate:"omitempty,max=2000"`
}

// Response DTOs

type ReviewResponse struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int              `json:"total"`
}

// CreateReviewResponse returns the stored review with the doctor's new aggregate
type CreateReviewResponse struct {
	Review       ReviewResponse `json:"review"`
	DoctorRating float64        `json:"doctor_rating"`
	ReviewCount  int            `json:"review_count"`
}
