package converter

import (
	"time"

	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		DoctorName:      appointment.DoctorName,
		DoctorSpecialty: appointment.DoctorSpecialty,
		PatientName:     appointment.PatientName,
		Date:            appointment.Date.Format(time.DateOnly),
		Time:            appointment.Time,
		Reason:          appointment.Reason,
		Status:          string(appointment.Status),
		DurationMinutes: appointment.DurationMinutes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
