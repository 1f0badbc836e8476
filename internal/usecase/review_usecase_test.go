package usecase

import (
	"context"
	"testing"

	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewUsecase_CreateReviewRecomputesRating(t *testing.T) {
	db, mock := newMockDB(t)
	doctorID := uuid.New()
	doctors := &fakeDoctorRepo{doctors: []entity.Doctor{{ID: doctorID, Name: "Dr. New"}}}
	reviews := &fakeReviewRepo{}
	audit := &fakeAuditLogRepo{}
	uc := NewReviewUsecase(db, newTestLogger(), reviews, doctors, newTestAuditService(audit))

	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := uc.CreateReview(context.Background(), &dto.CreateReviewRequest{
		DoctorID: doctorID, ReviewerName: "Ann", Rating: 5, Comment: "Great",
	})

	require.NoError(t, err)
	assert.Equal(t, 5.0, res.DoctorRating)
	assert.Equal(t, 1, res.ReviewCount)
	assert.Equal(t, "5.0", doctors.doctors[0].Rating.StringFixed(1))
	assert.Equal(t, 1, doctors.doctors[0].ReviewCount)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, entity.AuditActionReviewCreate, audit.logs[0].Action)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = uc.CreateReview(context.Background(), &dto.CreateReviewRequest{DoctorID: doctorID, ReviewerName: "Bo", Rating: 4})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	res, err = uc.CreateReview(context.Background(), &dto.CreateReviewRequest{DoctorID: doctorID, ReviewerName: "Cy", Rating: 5})
	require.NoError(t, err)

	// (5 + 4 + 5) / 3 = 4.666...
	assert.Equal(t, 4.7, res.DoctorRating)
	assert.Equal(t, 3, res.ReviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewUsecase_CreateReviewUnknownDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	reviews := &fakeReviewRepo{}
	uc := NewReviewUsecase(db, newTestLogger(), reviews, &fakeDoctorRepo{}, newTestAuditService(&fakeAuditLogRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.CreateReview(context.Background(), &dto.CreateReviewRequest{DoctorID: uuid.New(), ReviewerName: "Ann", Rating: 3})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.Empty(t, reviews.reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewUsecase_RejectsOutOfRangeRating(t *testing.T) {
	db, _ := newMockDB(t)
	uc := NewReviewUsecase(db, newTestLogger(), &fakeReviewRepo{}, &fakeDoctorRepo{}, newTestAuditService(&fakeAuditLogRepo{}))

	_, err := uc.CreateReview(context.Background(), &dto.CreateReviewRequest{DoctorID: uuid.New(), ReviewerName: "Ann", Rating: 6})

	assert.ErrorIs(t, err, ErrInvalidReviewRating)
}

func TestReviewUsecase_ListReviews(t *testing.T) {
	db, _ := newMockDB(t)
	doctorID := uuid.New()
	reviews := &fakeReviewRepo{reviews: []entity.Review{
		{ID: uuid.New(), DoctorID: doctorID, Rating: 4},
		{ID: uuid.New(), DoctorID: uuid.New(), Rating: 1},
	}}
	uc := NewReviewUsecase(db, newTestLogger(), reviews, &fakeDoctorRepo{doctors: []entity.Doctor{{ID: doctorID}}}, newTestAuditService(&fakeAuditLogRepo{}))

	res, err := uc.ListReviews(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = uc.ListReviews(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestReviewUsecase_InvalidatesDoctorCacheAfterCommit(t *testing.T) {
	db, mock := newMockDB(t)
	doctorID := uuid.New()
	doctors := &cachingDoctorRepo{
		fakeDoctorRepo: &fakeDoctorRepo{doctors: []entity.Doctor{{ID: doctorID, Name: "Dr. New"}}},
		mock:           mock,
	}
	uc := NewReviewUsecase(db, newTestLogger(), &fakeReviewRepo{}, doctors, newTestAuditService(&fakeAuditLogRepo{}))

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := uc.CreateReview(context.Background(), &dto.CreateReviewRequest{DoctorID: doctorID, ReviewerName: "Ann", Rating: 4})

	require.NoError(t, err)
	assert.Equal(t, 1, doctors.invalidations)
	assert.Zero(t, doctors.beforeCommitted, "cache invalidated before commit")
}

func TestReviewUsecase_FailedReviewKeepsDoctorCache(t *testing.T) {
	db, mock := newMockDB(t)
	doctors := &cachingDoctorRepo{fakeDoctorRepo: &fakeDoctorRepo{}, mock: mock}
	uc := NewReviewUsecase(db, newTestLogger(), &fakeReviewRepo{}, doctors, newTestAuditService(&fakeAuditLogRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.CreateReview(context.Background(), &dto.CreateReviewRequest{DoctorID: uuid.New(), ReviewerName: "Ann", Rating: 4})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.Zero(t, doctors.invalidations)
}
