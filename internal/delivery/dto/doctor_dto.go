package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	UserID     *uuid.UUID `json:"user_id" validate:"omitempty"`
	Name       string     `json:"name" validate:"required,min=2,max=255"`
	Specialty  string     `json:"specialty" validate:"required,max=100"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone" validate:"omitempty,max=30"`
	Address    string     `json:"address" validate:"omitempty"`
	City       string     `json:"city" validate:"omitempty,max=100"`
	Lat        *float64   `json:"lat" validate:"required_with=Lng,omitempty,latitude"`
	Lng        *float64   `json:"lng" validate:"required_with=Lat,omitempty,longitude"`
	Bio        string     `json:"bio" validate:"omitempty"`
	Education  string     `json:"education" validate:"omitempty"`
	Experience int        `json:"experience" validate:"omitempty,min=0,max=80"`
}

// UpdateDoctorRequest changes only the fields that are set.
// Coordinates are set as a pair.
// Rating and review count are derived from reviews and cannot be updated.
type UpdateDoctorRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Specialty  *string  `json:"specialty" validate:"omitempty,min=1,max=100"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Phone      *string  `json:"phone" validate:"omitempty,max=30"`
	Address    *string  `json:"address" validate:"omitempty"`
	City       *string  `json:"city" validate:"omitempty,max=100"`
	Lat        *float64 `json:"lat" validate:"required_with=Lng,omitempty,latitude"`
	Lng        *float64 `json:"lng" validate:"required_with=Lat,omitempty,longitude"`
	Bio        *string  `json:"bio" validate:"omitempty"`
	Education  *string  `json:"education" validate:"omitempty"`
	Experience *int     `json:"experience" validate:"omitempty,min=0,max=80"`
}

// Response DTOs

type DoctorResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Name        string     `json:"name"`
	Specialty   string     `json:"specialty"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Education   string     `json:"education,omitempty"`
	Experience  int        `json:"experience"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	DistanceKm  *float64   `json:"distance_km,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
