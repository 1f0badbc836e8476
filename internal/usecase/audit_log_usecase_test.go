package usecase

import (
	"context"
	"testing"

	"doctor-discovery/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_GetRecentAuditLogs(t *testing.T) {
	db, _ := newMockDB(t)
	repo := &fakeAuditLogRepo{}
	for _, action := range []string{entity.AuditActionDoctorCreate, entity.AuditActionReviewCreate, entity.AuditActionAppointmentCreate} {
		require.NoError(t, repo.Create(nil, &entity.AuditLog{Action: action}))
	}
	uc := NewAuditLogUsecase(db, newTestLogger(), repo)

	res, err := uc.GetRecentAuditLogs(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	assert.Equal(t, entity.AuditActionAppointmentCreate, res.Logs[0].Action)

	res, err = uc.GetRecentAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)

	_, err = uc.GetAuditLog(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
