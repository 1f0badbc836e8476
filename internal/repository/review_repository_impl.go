package repository

import (
	"doctor-discovery/internal/domain/entity"
	domainRepo "doctor-discovery/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Create(review).Error
}

func (r *reviewRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	err := db.Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

type reviewTotals struct {
	Total int64
	Count int64
}

func (r *reviewRepository) Totals(db *gorm.DB, doctorID uuid.UUID) (int64, int64, error) {
	var totals reviewTotals
	err := db.Model(&entity.Review{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("doctor_id = ?", doctorID).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.Total, totals.Count, nil
}
