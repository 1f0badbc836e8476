package converter

import (
	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	rating, _ := doctor.Rating.Round(1).Float64()

	return &dto.DoctorResponse{
		ID:          doctor.ID,
		UserID:      doctor.UserID,
		Name:        doctor.Name,
		Specialty:   doctor.Specialty,
		Email:       doctor.Email,
		Phone:       doctor.Phone,
		Address:     doctor.Address,
		City:        doctor.City,
		Lat:         copyFloat(doctor.Latitude),
		Lng:         copyFloat(doctor.Longitude),
		Bio:         doctor.Bio,
		Education:   doctor.Education,
		Experience:  doctor.Experience,
		Rating:      rating,
		ReviewCount: doctor.ReviewCount,
		CreatedAt:   doctor.CreatedAt,
		UpdatedAt:   doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// RankedDoctorsToResponses keeps the ranked order and attaches distances
func RankedDoctorsToResponses(ranked []entity.RankedDoctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(ranked))
	for i := range ranked {
		responses[i] = *DoctorToResponse(&ranked[i].Doctor)
		if ranked[i].DistanceKm != nil {
			km := roundKm(*ranked[i].DistanceKm)
			responses[i].DistanceKm = &km
		}
	}
	return responses
}

// roundKm keeps one decimal place for display
func roundKm(km float64) float64 {
	return float64(int64(km*10+0.5)) / 10
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
