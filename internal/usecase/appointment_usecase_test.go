package usecase

import (
	"context"
	"testing"
	"time"

	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"
	"doctor-discovery/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appointmentFixture struct {
	uc           AppointmentUsecase
	mock         sqlmock.Sqlmock
	appointments *fakeAppointmentRepo
	audit        *fakeAuditLogRepo
	doctorID     uuid.UUID
	patientID    uuid.UUID
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	db, mock := newMockDB(t)

	planner, err := service.NewAppointmentSlotPlanner("09:00", "12:00", 30)
	require.NoError(t, err)

	f := &appointmentFixture{
		mock:         mock,
		appointments: &fakeAppointmentRepo{},
		audit:        &fakeAuditLogRepo{},
		doctorID:     uuid.New(),
		patientID:    uuid.New(),
	}
	doctors := &fakeDoctorRepo{doctors: []entity.Doctor{{ID: f.doctorID, Name: "Dr. Who", Specialty: "General Practice"}}}
	users := &fakeUserRepo{users: []entity.User{{ID: f.patientID, Name: "Pat", Role: entity.RoleCustomer}}}

	uc := NewAppointmentUsecase(db, newTestLogger(), f.appointments, doctors, users, planner, newTestAuditService(f.audit), time.UTC)
	uc.(*appointmentUsecase).now = func() time.Time {
		return time.Date(2030, 6, 10, 10, 15, 0, 0, time.UTC)
	}
	f.uc = uc
	return f
}

func (f *appointmentFixture) request(date, clock string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{DoctorID: f.doctorID, PatientID: f.patientID, Date: date, Time: clock, Reason: "checkup"}
}

func TestAppointmentUsecase_Book(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	res, err := f.uc.BookAppointment(context.Background(), f.request("2030-06-11", "09:30"))

	require.NoError(t, err)
	assert.Equal(t, "Dr. Who", res.DoctorName)
	assert.Equal(t, "Pat", res.PatientName)
	assert.Equal(t, "2030-06-11", res.Date)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, entity.DefaultAppointmentDuration, res.DurationMinutes)
	require.Len(t, f.audit.logs, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAppointmentUsecase_BookTakenSlot(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.uc.BookAppointment(context.Background(), f.request("2030-06-11", "09:30"))
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.uc.BookAppointment(context.Background(), f.request("2030-06-11", "09:30"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Len(t, f.appointments.appointments, 1)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAppointmentUsecase_BookRejectsBadInput(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	_, err := f.uc.BookAppointment(ctx, f.request("2030-06-09", "09:30"))
	assert.ErrorIs(t, err, ErrAppointmentInPast)

	_, err = f.uc.BookAppointment(ctx, f.request("2030-06-10", "10:00"))
	assert.ErrorIs(t, err, ErrAppointmentInPast, "slot earlier today")

	_, err = f.uc.BookAppointment(ctx, f.request("2030-06-11", "09:15"))
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = f.uc.BookAppointment(ctx, f.request("2030-06-11", "12:00"))
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = f.uc.BookAppointment(ctx, f.request("11/06/2030", "09:30"))
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	assert.Empty(t, f.appointments.appointments)
}

func TestAppointmentUsecase_CancelledIsTerminal(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	booked, err := f.uc.BookAppointment(context.Background(), f.request("2030-06-11", "11:00"))
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	res, err := f.uc.UpdateStatus(context.Background(), booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", res.Status)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.uc.UpdateStatus(context.Background(), booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAppointmentCancelled)

	// a cancelled appointment frees its slot
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err = f.uc.BookAppointment(context.Background(), f.request("2030-06-11", "11:00"))
	assert.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAppointmentUsecase_AvailableSlots(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.uc.BookAppointment(context.Background(), f.request("2030-06-10", "11:00"))
	require.NoError(t, err)

	res, err := f.uc.AvailableSlots(context.Background(), f.doctorID, "2030-06-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:30"}, res.Slots)

	res, err = f.uc.AvailableSlots(context.Background(), f.doctorID, "2030-06-01")
	require.NoError(t, err)
	assert.Empty(t, res.Slots)

	_, err = f.uc.AvailableSlots(context.Background(), uuid.New(), "2030-06-10")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestAppointmentUsecase_Delete(t *testing.T) {
	f := newAppointmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	booked, err := f.uc.BookAppointment(context.Background(), f.request("2030-06-12", "09:00"))
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	require.NoError(t, f.uc.DeleteAppointment(context.Background(), booked.ID))

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	assert.ErrorIs(t, f.uc.DeleteAppointment(context.Background(), booked.ID), ErrAppointmentNotFound)

	list, err := f.uc.GetPatientAppointments(context.Background(), f.patientID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
