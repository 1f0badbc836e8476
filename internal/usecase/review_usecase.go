package usecase

import (
	"context"
	"errors"
	"strings"

	"doctor-discovery/internal/converter"
	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/internal/domain/repository"
	"doctor-discovery/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidReviewRating = errors.New("rating must be between 1 and 5")
)

type ReviewUsecase interface {
	ListReviews(ctx context.Context, doctorID uuid.UUID) (*dto.ReviewListResponse, error)
	CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error)
}

type reviewUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	reviewRepo   repository.ReviewRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) ReviewUsecase {
	return &reviewUsecase{
		db:           db,
		log:          log,
		reviewRepo:   reviewRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *reviewUsecase) ListReviews(ctx context.Context, doctorID uuid.UUID) (*dto.ReviewListResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	reviews, err := u.reviewRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find reviews for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ReviewListResponse{
		Reviews: converter.ReviewsToResponses(reviews),
		Total:   len(reviews),
	}, nil
}

// CreateReview stores the review and recomputes the doctor's rating and
// review count from all of its reviews. The doctor row stays locked until
// commit so concurrent reviews are aggregated one after the other.
func (u *reviewUsecase) CreateReview(ctx context.Context, req *dto.CreateReviewRequest) (*dto.CreateReviewResponse, error) {
	if req.Rating < entity.MinReviewRating || req.Rating > entity.MaxReviewRating {
		return nil, ErrInvalidReviewRating
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByIDForUpdate(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	review := &entity.Review{
		DoctorID:     doctor.ID,
		ReviewerName: strings.TrimSpace(req.ReviewerName),
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := u.reviewRepo.Create(tx, review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	sum, count, err := u.reviewRepo.Totals(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to aggregate reviews for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}
	doctor.ApplyRating(sum, count)

	if err := u.doctorRepo.UpdateRating(tx, doctor.ID, doctor.Rating, doctor.ReviewCount); err != nil {
		u.log.Warnf("Failed to update rating for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}

	reviewResponse := converter.ReviewToResponse(review)
	target := service.AuditTarget{Kind: "review", ID: review.ID.String()}
	if err := u.auditService.LogCreate(tx, nil, entity.AuditActionReviewCreate, target, reviewResponse); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	invalidateDoctorCache(ctx, u.doctorRepo)

	rating, _ := doctor.Rating.Float64()
	return &dto.CreateReviewResponse{
		Review:       *reviewResponse,
		DoctorRating: rating,
		ReviewCount:  doctor.ReviewCount,
	}, nil
}
