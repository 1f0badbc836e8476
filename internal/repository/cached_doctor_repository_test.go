package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"doctor-discovery/internal/domain/entity"
	domainRepo "doctor-discovery/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubDoctorRepository struct {
	domainRepo.DoctorRepository
	doctors []entity.Doctor
	err     error
	calls   int
	created int
}

func (s *stubDoctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	s.calls++
	return s.doctors, s.err
}

func (s *stubDoctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	s.created++
	return s.err
}

func (s *stubDoctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return s.err
}

func (s *stubDoctorRepository) UpdateRating(db *gorm.DB, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	return s.err
}

// recordingCache records deleted keys and fails every other command
type recordingCache struct {
	redis.Cmdable
	deleted []string
}

func (c *recordingCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.deleted = append(c.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

// unreachableRedis fails every command without retrying
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedDoctorRepository_FallsThroughWhenCacheIsDown(t *testing.T) {
	log, hook := test.NewNullLogger()
	inner := &stubDoctorRepository{doctors: []entity.Doctor{{Name: "Dr. A"}, {Name: "Dr. B"}}}
	repo := NewCachedDoctorRepository(inner, unreachableRedis(t), time.Minute, log)

	doctors, err := repo.FindAll(nil)

	require.NoError(t, err)
	assert.Len(t, doctors, 2)
	assert.Equal(t, 1, inner.calls)
	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCachedDoctorRepository_PropagatesStoreFault(t *testing.T) {
	log, _ := test.NewNullLogger()
	inner := &stubDoctorRepository{err: errors.New("connection refused")}
	repo := NewCachedDoctorRepository(inner, unreachableRedis(t), time.Minute, log)

	doctors, err := repo.FindAll(nil)

	require.Error(t, err)
	assert.Nil(t, doctors)
}

func TestCachedDoctorRepository_WriteSucceedsWhenInvalidationFails(t *testing.T) {
	log, hook := test.NewNullLogger()
	inner := &stubDoctorRepository{}
	repo := NewCachedDoctorRepository(inner, unreachableRedis(t), time.Minute, log)

	err := repo.Create(nil, &entity.Doctor{Name: "Dr. C"})

	require.NoError(t, err)
	assert.Equal(t, 1, inner.created)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "invalidate")
}

func TestCachedDoctorRepository_InvalidatesImmediatelyOutsideTransaction(t *testing.T) {
	db, _ := newMockDB(t)
	log, _ := test.NewNullLogger()
	cache := &recordingCache{}
	repo := NewCachedDoctorRepository(&stubDoctorRepository{}, cache, time.Minute, log)

	require.NoError(t, repo.UpdateRating(db, uuid.New(), decimal.RequireFromString("4.5"), 2))

	assert.Equal(t, []string{doctorsAllCacheKey}, cache.deleted)
}

func TestCachedDoctorRepository_DefersInvalidationInsideTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	log, _ := test.NewNullLogger()
	cache := &recordingCache{}
	repo := NewCachedDoctorRepository(&stubDoctorRepository{}, cache, time.Minute, log)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, repo.UpdateRating(tx, uuid.New(), decimal.RequireFromString("4.5"), 2))
	require.NoError(t, repo.Update(tx, &entity.Doctor{ID: uuid.New()}))
	assert.Empty(t, cache.deleted, "no invalidation before commit")

	require.NoError(t, tx.Commit().Error)
	cacheAware, ok := repo.(domainRepo.DoctorCache)
	require.True(t, ok)
	cacheAware.InvalidateCache(context.Background())

	assert.Equal(t, []string{doctorsAllCacheKey}, cache.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
