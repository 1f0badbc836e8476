package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorProfileExists = errors.New("doctor profile already exists for this user")
	ErrNotDoctorAccount    = errors.New("user is not a doctor account")
	ErrInvalidSort         = errors.New("invalid sort")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, sort string) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	userRepo     repository.UserRepository
	ranker       *service.DoctorRanker
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	ranker *service.DoctorRanker,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		userRepo:     userRepo,
		ranker:       ranker,
		auditService: auditService,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, sort string) (*dto.DoctorListResponse, error) {
	key := entity.DefaultSortKey
	if sort = strings.TrimSpace(sort); sort != "" {
		key = entity.SortKey(strings.ToLower(sort))
		if !entity.ValidSortKey(key) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sort)
		}
	}

	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	ranked := u.ranker.Rank(doctors, key, nil)

	return &dto.DoctorListResponse{
		Doctors: converter.RankedDoctorsToResponses(ranked),
		Total:   len(ranked),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor for user %s: %+v", userID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// CreateDoctor registers a profile. When it is owned by an account, the
// account must be a doctor account without a profile.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if req.UserID != nil {
		user, err := u.userRepo.FindByID(tx, *req.UserID)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", *req.UserID, err)
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if !user.IsDoctor() {
			return nil, ErrNotDoctorAccount
		}

		existing, err := u.doctorRepo.FindByUserID(tx, *req.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor for user %s: %+v", *req.UserID, err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrDoctorProfileExists
		}
	}

	doctor := &entity.Doctor{
		UserID:     req.UserID,
		Name:       strings.TrimSpace(req.Name),
		Specialty:  strings.TrimSpace(req.Specialty),
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       strings.TrimSpace(req.City),
		Bio:        req.Bio,
		Education:  req.Education,
		Experience: req.Experience,
	}
	if req.Lat != nil {
		lat := *req.Lat
		doctor.Latitude = &lat
	}
	if req.Lng != nil {
		lng := *req.Lng
		doctor.Longitude = &lng
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrDoctorProfileExists
		}
		if isForeignKeyError(err, "user") {
			return nil, ErrUserNotFound
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorToResponse(doctor)
	target := service.AuditTarget{Kind: "doctor", ID: doctor.ID.String()}
	if err := u.auditService.LogCreate(tx, req.UserID, entity.AuditActionDoctorCreate, target, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	invalidateDoctorCache(ctx, u.doctorRepo)

	return response, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	before := converter.DoctorToResponse(doctor)
	applyDoctorUpdate(doctor, req)

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", id, err)
		return nil, err
	}

	after := converter.DoctorToResponse(doctor)
	target := service.AuditTarget{Kind: "doctor", ID: doctor.ID.String()}
	if err := u.auditService.LogUpdate(tx, doctor.UserID, entity.AuditActionDoctorUpdate, target, before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	invalidateDoctorCache(ctx, u.doctorRepo)

	return after, nil
}

func applyDoctorUpdate(doctor *entity.Doctor, req *dto.UpdateDoctorRequest) {
	if req.Name != nil {
		doctor.Name = strings.TrimSpace(*req.Name)
	}
	if req.Specialty != nil {
		doctor.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.City != nil {
		doctor.City = strings.TrimSpace(*req.City)
	}
	if req.Lat != nil {
		lat := *req.Lat
		doctor.Latitude = &lat
	}
	if req.Lng != nil {
		lng := *req.Lng
		doctor.Longitude = &lng
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.Education != nil {
		doctor.Education = *req.Education
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
}

// invalidateDoctorCache drops cached doctor reads once a write has committed
func invalidateDoctorCache(ctx context.Context, doctorRepo repository.DoctorRepository) {
	if cache, ok := doctorRepo.(repository.DoctorCache); ok {
		cache.InvalidateCache(ctx)
	}
}
