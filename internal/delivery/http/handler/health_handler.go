package handler

import (
	"context"
	"net/http"
	"time"

	"patient-registry/internal/infrastructure/database"
	"patient-registry/pkg/response"

	"github.com/sirupsen/logrus"
)

// ConnectionInspector reports on the live database connection
type ConnectionInspector interface {
	Inspect(ctx context.Context) (*database.ConnectionInfo, error)
}

type HealthHandler struct {
	inspector ConnectionInspector
	log       *logrus.Logger
}

func NewHealthHandler(inspector ConnectionInspector, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		inspector: inspector,
		log:       log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Database runs a connection test and reports driver and server metadata
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	info, err := h.inspector.Inspect(ctx)
	if err != nil {
		h.log.Warnf("Database connection test failed: %+v", err)
		response.Error(w, http.StatusServiceUnavailable, "Database connection failed", err.Error())
		return
	}

	response.Success(w, http.StatusOK, "Database connection OK", info)
}
