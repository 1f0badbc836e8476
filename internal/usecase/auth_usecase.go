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
	"doctor-discovery/pkg/hasher"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountTypeMismatch = errors.New("account type does not match")
	ErrUserNotFound        = errors.New("user not found")
)

type AuthUsecase interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	hasher       hasher.PasswordHasher
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	passwordHasher hasher.PasswordHasher,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		hasher:       passwordHasher,
		auditService: auditService,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)
	role := entity.UserRole(req.Type)
	if !entity.ValidRole(role) {
		return nil, ErrAccountTypeMismatch
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.userRepo.FindByEmail(tx, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := u.hasher.Hash(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	target := service.AuditTarget{Kind: "user", ID: user.ID.String()}
	if err := u.auditService.LogCreate(tx, &user.ID, entity.AuditActionUserSignup, target, converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// Login returns the account when the credentials match. No session is created.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := u.hasher.Compare(user.Password, req.Password); err != nil {
		if !errors.Is(err, hasher.ErrMismatch) {
			u.log.Warnf("Failed to compare password: %+v", err)
		}
		return nil, ErrInvalidCredentials
	}

	if req.Type != "" && entity.UserRole(req.Type) != user.Role {
		return nil, ErrAccountTypeMismatch
	}

	return converter.UserToResponse(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
