package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"doctor-discovery/internal/domain/entity"
	domainRepo "doctor-discovery/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const doctorsAllCacheKey = "doctors:all"

var _ domainRepo.DoctorCache = (*cachedDoctorRepository)(nil)

// cachedDoctorRepository keeps the full doctor listing in redis.
// Cache faults never fail a call: reads fall through to the inner repository.
// Writes outside a transaction invalidate at once. Inside a transaction the
// caller calls InvalidateCache after commit, so a reader cannot re-cache rows
// the transaction is about to replace.
type cachedDoctorRepository struct {
	domainRepo.DoctorRepository
	cache redis.Cmdable
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCachedDoctorRepository(inner domainRepo.DoctorRepository, cache redis.Cmdable, ttl time.Duration, log *logrus.Logger) domainRepo.DoctorRepository {
	return &cachedDoctorRepository{
		DoctorRepository: inner,
		cache:            cache,
		ttl:              ttl,
		log:              log,
	}
}

func (r *cachedDoctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	ctx := contextOf(db)

	if cached, err := r.cache.Get(ctx, doctorsAllCacheKey).Bytes(); err == nil {
		var doctors []entity.Doctor
		if err := json.Unmarshal(cached, &doctors); err == nil {
			return doctors, nil
		}
		r.log.Warnf("Failed to decode cached doctor list: %+v", err)
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warnf("Failed to read doctor list from cache: %+v", err)
	}

	doctors, err := r.DoctorRepository.FindAll(db)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(doctors); err == nil {
		if err := r.cache.Set(ctx, doctorsAllCacheKey, data, r.ttl).Err(); err != nil {
			r.log.Warnf("Failed to cache doctor list: %+v", err)
		}
	}

	return doctors, nil
}

func (r *cachedDoctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	if err := r.DoctorRepository.Create(db, doctor); err != nil {
		return err
	}
	r.invalidateUnlessInTransaction(db)
	return nil
}

func (r *cachedDoctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	if err := r.DoctorRepository.Update(db, doctor); err != nil {
		return err
	}
	r.invalidateUnlessInTransaction(db)
	return nil
}

func (r *cachedDoctorRepository) UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	if err := r.DoctorRepository.UpdateRating(db, id, rating, reviewCount); err != nil {
		return err
	}
	r.invalidateUnlessInTransaction(db)
	return nil
}

// InvalidateCache drops the cached doctor listing
func (r *cachedDoctorRepository) InvalidateCache(ctx context.Context) {
	r.invalidate(ctx)
}

func (r *cachedDoctorRepository) invalidateUnlessInTransaction(db *gorm.DB) {
	if inTransaction(db) {
		return
	}
	r.invalidate(contextOf(db))
}

func (r *cachedDoctorRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, doctorsAllCacheKey).Err(); err != nil {
		r.log.Warnf("Failed to invalidate doctor list cache: %+v", err)
	}
}

func contextOf(db *gorm.DB) context.Context {
	if db != nil && db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}

func inTransaction(db *gorm.DB) bool {
	if db == nil || db.Statement == nil {
		return false
	}
	committer, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok && committer != nil
}
