package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	Date            string    `json:"date" validate:"required,date"`  // Format: YYYY-MM-DD
	Time            string    `json:"time" validate:"required,clock"` // Format: HH:MM
	Reason          string    `json:"reason" validate:"omitempty,max=1000"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=5,max=240"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	DoctorName      string    `json:"doctor_name"`
	DoctorSpecialty string    `json:"doctor_specialty"`
	PatientName     string    `json:"patient_name"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Reason          string    `json:"reason,omitempty"`
	Status          string    `json:"status"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailableSlotsResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}
