package http

import (
	"net/http"

	"patient-registry/internal/delivery/http/handler"
	"patient-registry/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	patientHandler    *handler.PatientHandler
	auditLogHandler   *handler.AuditLogHandler
	healthHandler     *handler.HealthHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
	metricsHandler    http.Handler
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	auditLogHandler *handler.AuditLogHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		patientHandler:    patientHandler,
		auditLogHandler:   auditLogHandler,
		healthHandler:     healthHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		metricsMiddleware: metricsMiddleware,
		metricsHandler:    metricsHandler,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even though no route declares OPTIONS.
func (r *Router) Setup() http.Handler {
	// Operational endpoints (public)
	r.router.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)
	r.router.HandleFunc("/health/db", r.healthHandler.Database).Methods(http.MethodGet)
	r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// Patient routes (protected when auth is enabled)
	patients := r.router.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)

	// Static segments go before /{id} so they are not parsed as identifiers
	patients.HandleFunc("", r.patientHandler.Create).Methods(http.MethodPost)
	patients.HandleFunc("", r.patientHandler.List).Methods(http.MethodGet)
	patients.HandleFunc("/all", r.patientHandler.GetAll).Methods(http.MethodGet)
	patients.HandleFunc("/count", r.patientHandler.Count).Methods(http.MethodGet)
	patients.HandleFunc("/search", r.patientHandler.Search).Methods(http.MethodGet)
	patients.HandleFunc("/age-range", r.patientHandler.GetByBirthDateRange).Methods(http.MethodGet)
	patients.HandleFunc("/cpf/{cpf}", r.patientHandler.GetByCPF).Methods(http.MethodGet)
	patients.HandleFunc("/rg/{rg}", r.patientHandler.GetByRG).Methods(http.MethodGet)
	patients.HandleFunc("/email/{email}", r.patientHandler.GetByEmail).Methods(http.MethodGet)
	patients.HandleFunc("/city/{city}", r.patientHandler.GetByCity).Methods(http.MethodGet)
	patients.HandleFunc("/state/{state}", r.patientHandler.GetByState).Methods(http.MethodGet)

	patients.HandleFunc("/{id}", r.patientHandler.GetByID).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Exists).Methods(http.MethodHead)
	patients.HandleFunc("/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	patients.HandleFunc("/{id}/deactivate", r.patientHandler.Deactivate).Methods(http.MethodPatch)
	patients.HandleFunc("/{id}/reactivate", r.patientHandler.Reactivate).Methods(http.MethodPatch)
	patients.HandleFunc("/{id}/history", r.auditLogHandler.GetPatientHistory).Methods(http.MethodGet)
	patients.Handle("/{id}", r.authMiddleware.RequireAdmin(http.HandlerFunc(r.patientHandler.Delete))).Methods(http.MethodDelete)

	// Audit trail (admin when auth is enabled)
	audit := r.router.PathPrefix("/audit-logs").Subrouter()
	audit.Use(r.authMiddleware.Authenticate)
	audit.Use(r.authMiddleware.RequireAdmin)
	audit.HandleFunc("", r.auditLogHandler.GetLatestAuditLogs).Methods(http.MethodGet)

	r.router.Use(r.metricsMiddleware.Handle)

	return r.corsMiddleware.Handle(r.router)
}
