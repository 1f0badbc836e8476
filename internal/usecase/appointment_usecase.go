package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentCancelled = errors.New("appointment is already cancelled")
	ErrAppointmentInPast    = errors.New("cannot book an appointment in the past")
	ErrInvalidSlot          = errors.New("time is not a bookable slot")
	ErrSlotTaken            = errors.New("slot is already booked")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidStatus        = errors.New("invalid appointment status")
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	planner         *service.AppointmentSlotPlanner
	auditService    service.AuditService
	loc             *time.Location
	now             func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	planner *service.AppointmentSlotPlanner,
	auditService service.AuditService,
	loc *time.Location,
) AppointmentUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		planner:         planner,
		auditService:    auditService,
		loc:             loc,
		now:             time.Now,
	}
}

// BookAppointment reserves a free slot. The slot check runs inside the
// transaction and the partial unique index on active slots catches races.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := u.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !u.planner.IsSlot(req.Time) {
		return nil, ErrInvalidSlot
	}
	if u.hasStarted(date, req.Time) {
		return nil, ErrAppointmentInPast
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = entity.DefaultAppointmentDuration
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.userRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	taken, err := u.appointmentRepo.FindActiveBySlot(tx, doctor.ID, date, req.Time)
	if err != nil {
		u.log.Warnf("Failed to check slot %s %s: %+v", req.Date, req.Time, err)
		return nil, err
	}
	if taken != nil {
		return nil, ErrSlotTaken
	}

	appointment := &entity.Appointment{
		DoctorID:        doctor.ID,
		PatientID:       patient.ID,
		DoctorName:      doctor.Name,
		DoctorSpecialty: doctor.Specialty,
		PatientName:     patient.Name,
		Date:            date,
		Time:            req.Time,
		Reason:          req.Reason,
		Status:          entity.AppointmentStatusPending,
		DurationMinutes: duration,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotTaken
		}
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		if isForeignKeyError(err, "patient") {
			return nil, ErrUserNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	response := converter.AppointmentToResponse(appointment)
	target := service.AuditTarget{Kind: "appointment", ID: appointment.ID.String()}
	if err := u.auditService.LogCreate(tx, &patient.ID, entity.AuditActionAppointmentCreate, target, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus moves an appointment between states. Cancelled is terminal.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(req.Status)
	if !entity.ValidAppointmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	before := converter.AppointmentToResponse(appointment)

	// 0 rows means it was cancelled after we read it
	rowsAffected, err := u.appointmentRepo.UpdateStatus(tx, id, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrAppointmentCancelled
	}
	appointment.Status = status

	after := converter.AppointmentToResponse(appointment)
	target := service.AuditTarget{Kind: "appointment", ID: id.String()}
	if err := u.auditService.LogUpdate(tx, &appointment.PatientID, entity.AuditActionAppointmentStatus, target, before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	rowsAffected, err := u.appointmentRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	target := service.AuditTarget{Kind: "appointment", ID: id.String()}
	if err := u.auditService.LogDelete(tx, &appointment.PatientID, entity.AuditActionAppointmentDelete, target, converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// AvailableSlots lists the free slots of a doctor on a date. Past dates have none.
func (u *appointmentUsecase) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := u.parseDate(date)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	response := &dto.AvailableSlotsResponse{DoctorID: doctorID, Date: day.Format(time.DateOnly), Slots: []string{}}
	if day.Before(u.today()) {
		return response, nil
	}

	booked, err := u.appointmentRepo.FindActiveByDoctorAndDate(db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	response.Slots = u.planner.Available(day, u.now().In(u.loc), booked)
	return response, nil
}

func (u *appointmentUsecase) parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(time.DateOnly, value, u.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return date, nil
}

func (u *appointmentUsecase) today() time.Time {
	now := u.now().In(u.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc)
}

// hasStarted reports whether the slot on date is not in the future
func (u *appointmentUsecase) hasStarted(date time.Time, clock string) bool {
	today := u.today()
	if date.Before(today) {
		return true
	}
	if date.After(today) {
		return false
	}
	return clock <= u.now().In(u.loc).Format(service.ClockLayout)
}
