package handler

import (
	"errors"
	"net/http"

	"doctor-discovery/internal/delivery/dto"
	"doctor-discovery/internal/usecase"
	"doctor-discovery/pkg/response"
)

type SearchHandler struct {
	searchUsecase usecase.DoctorSearchUsecase
}

func NewSearchHandler(searchUsecase usecase.DoctorSearchUsecase) *SearchHandler {
	return &SearchHandler{
		searchUsecase: searchUsecase,
	}
}

type searchFunc func(r *http.Request, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error)

// Search infers the search mode from the query parameters
// @Summary Search doctors
// @Tags Search
// @Produce json
// @Param symptoms query string false "Free-text symptoms"
// @Param location query string false "City or address"
// @Param specialty query string false "Specialty, or all"
// @Param rating query string false "Minimum rating, 0 for none"
// @Param lat query number false "Reference latitude"
// @Param lng query number false "Reference longitude"
// @Param max_distance query string false "Radius in km, or all"
// @Param sort query string false "rating-desc, distance-asc, name-asc or specialty-asc"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /doctors/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error) {
		return h.searchUsecase.Search(r.Context(), req)
	})
}

func (h *SearchHandler) SearchBySymptoms(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error) {
		return h.searchUsecase.SearchBySymptoms(r.Context(), req)
	})
}

func (h *SearchHandler) SearchByLocation(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(r *http.Request, req *dto.SearchDoctorsRequest) (*dto.SearchDoctorsResponse, error) {
		return h.searchUsecase.SearchByLocation(r.Context(), req)
	})
}

func (h *SearchHandler) serve(w http.ResponseWriter, r *http.Request, search searchFunc) {
	query := r.URL.Query()
	req := &dto.SearchDoctorsRequest{
		Symptoms:    query.Get("symptoms"),
		Location:    query.Get("location"),
		Specialty:   query.Get("specialty"),
		Rating:      query.Get("rating"),
		Lat:         query.Get("lat"),
		Lng:         query.Get("lng"),
		MaxDistance: query.Get("max_distance"),
		Sort:        query.Get("sort"),
	}

	result, err := search(r, req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymptomsRequired):
			response.BadRequest(w, "Please describe your symptoms")
		case errors.Is(err, usecase.ErrLocationRequired):
			response.BadRequest(w, "Please enter a location")
		case errors.Is(err, usecase.ErrInvalidSearch):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrSearchUnavailable):
			response.ServiceUnavailable(w, "Doctor search is temporarily unavailable")
		default:
			response.InternalServerError(w, "Failed to search doctors")
		}
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}
