package repository

import (
	"doctor-discovery/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error)
	// Totals returns the sum and count of the doctor's review ratings
	Totals(db *gorm.DB, doctorID uuid.UUID) (sum int64, count int64, err error)
}
