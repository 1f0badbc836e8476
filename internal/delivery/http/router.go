package http

import (
	"net/http"

	"doctor-discovery/internal/delivery/http/handler"
	"doctor-discovery/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	searchHandler      *handler.SearchHandler
	reviewHandler      *handler.ReviewHandler
	appointmentHandler *handler.AppointmentHandler
	auditLogHandler    *handler.AuditLogHandler
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	searchHandler *handler.SearchHandler,
	reviewHandler *handler.ReviewHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		searchHandler:      searchHandler,
		reviewHandler:      reviewHandler,
		appointmentHandler: appointmentHandler,
		auditLogHandler:    auditLogHandler,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", r.authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Search routes, registered before /doctors/{id}
	api.HandleFunc("/doctors/search", r.searchHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/doctors/search/symptoms", r.searchHandler.SearchBySymptoms).Methods(http.MethodGet)
	api.HandleFunc("/doctors/search/location", r.searchHandler.SearchByLocation).Methods(http.MethodGet)

	// Doctor routes
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	api.HandleFunc("/doctors/user/{userId}", r.doctorHandler.GetDoctorByUser).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)

	// Review routes
	api.HandleFunc("/reviews", r.reviewHandler.CreateReview).Methods(http.MethodPost)
	api.HandleFunc("/reviews/doctor/{doctorId}", r.reviewHandler.GetDoctorReviews).Methods(http.MethodGet)

	// Appointment routes
	api.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments/doctor/{doctorId}", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/doctor/{doctorId}/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/appointments/user/{userId}", r.appointmentHandler.GetPatientAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)

	// Audit log routes
	api.HandleFunc("/audit-logs", r.auditLogHandler.GetRecentAuditLogs).Methods(http.MethodGet)
	api.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
