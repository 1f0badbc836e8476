package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a patient's rating of a doctor. Reviews are never edited.
type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	ReviewerName string    `gorm:"type:varchar(255);not null" json:"reviewer_name"`
	Rating       int       `gorm:"type:smallint;not null" json:"rating"`
	Comment      string    `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// RatingFromTotals returns the mean review rating rounded to one decimal place.
// A doctor without reviews has a rating of zero.
func RatingFromTotals(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)).Round(1)
}
