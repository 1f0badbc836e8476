package repository

import (
	"context"

	"doctor-discovery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DoctorRepository is the record store consumed by the search core.
// FindByQuery and FindAll return a store error when the database is
// unreachable or rejects the query.
type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	FindByQuery(db *gorm.DB, query *entity.DoctorQuery) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal, reviewCount int) error
}

// DoctorCache is implemented by doctor repositories that cache reads.
// Writes made inside a transaction leave the cache alone; callers invalidate
// it after the transaction commits.
type DoctorCache interface {
	InvalidateCache(ctx context.Context)
}
