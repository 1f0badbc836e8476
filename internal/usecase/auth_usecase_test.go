package usecase

import (
	"context"
	"testing"

	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/pkg/hasher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthUsecase_SignupAndLogin(t *testing.T) {
	db, mock := newMockDB(t)
	users := &fakeUserRepo{}
	audit := &fakeAuditLogRepo{}
	uc := NewAuthUsecase(db, newTestLogger(), users, hasher.NewBcryptHasher(bcrypt.MinCost), newTestAuditService(audit))

	mock.ExpectBegin()
	mock.ExpectCommit()

	created, err := uc.Signup(context.Background(), &dto.SignupRequest{
		Name: "Pat Patient", Email: " Pat@Example.com ", Password: "secret1", Type: "customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", created.Email)
	assert.Equal(t, "customer", created.Type)
	require.Len(t, users.users, 1)
	assert.NotEqual(t, "secret1", users.users[0].Password)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, entity.AuditActionUserSignup, audit.logs[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())

	user, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.com", Password: "secret1", Type: "doctor"})
	assert.ErrorIs(t, err, ErrAccountTypeMismatch)
}

func TestAuthUsecase_SignupDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	users := &fakeUserRepo{users: []entity.User{{Email: "dup@example.com", Role: entity.RoleDoctor}}}
	uc := NewAuthUsecase(db, newTestLogger(), users, hasher.NewBcryptHasher(bcrypt.MinCost), newTestAuditService(&fakeAuditLogRepo{}))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := uc.Signup(context.Background(), &dto.SignupRequest{
		Name: "Dup", Email: "DUP@example.com", Password: "secret1", Type: "doctor",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Len(t, users.users, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
