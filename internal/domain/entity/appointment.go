package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// DefaultAppointmentDuration is used when a booking does not specify one
const DefaultAppointmentDuration = 30

// Appointment is a booked slot with a doctor.
// Doctor and patient names are captured at booking time and not re-synced.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorName      string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	DoctorSpecialty string            `gorm:"type:varchar(100)" json:"doctor_specialty"`
	PatientName     string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	Date            time.Time         `gorm:"column:appointment_date;type:date;not null" json:"date"`
	Time            string            `gorm:"column:appointment_time;type:varchar(5);not null" json:"time"`
	Reason          string            `gorm:"type:text" json:"reason"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DurationMinutes int               `gorm:"not null;default:30" json:"duration_minutes"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if appointment is in pending status
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// ValidAppointmentStatus reports whether s is a known status
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}
