package repository

import (
	"errors"

	"doctor-discovery/internal/domain/entity"
	domainRepo "doctor-discovery/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.first(db.Where("id = ?", id))
}

// FindByIDForUpdate locks the doctor row until the surrounding transaction ends
func (r *doctorRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	return r.first(db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	return r.first(db.Where("user_id = ?", userID))
}

func (r *doctorRepository) first(db *gorm.DB) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Order("doctors.rating DESC, doctors.name ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindByQuery(db *gorm.DB, query *entity.DoctorQuery) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := applyDoctorQuery(db, query).
		Order("doctors.rating DESC, doctors.name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

// Update saves profile fields. Rating and review count are owned by UpdateRating.
func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Rating", "ReviewCount", "CreatedAt").Save(doctor).Error
}

func (r *doctorRepository) UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	return db.Model(&entity.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error
}
