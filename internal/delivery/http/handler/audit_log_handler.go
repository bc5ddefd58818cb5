package handler

import (
	"net/http"
	"strconv"

	"patient-registry/internal/usecase"
	"patient-registry/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetLatestAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	auditLogs, err := h.auditLogUsecase.GetLatestAuditLogs(r.Context(), limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}

func (h *AuditLogHandler) GetPatientHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	history, err := h.auditLogUsecase.GetPatientHistory(r.Context(), id)
	if err != nil {
		response.InternalServerError(w, "Failed to get patient history")
		return
	}

	response.Success(w, http.StatusOK, "Patient history retrieved successfully", history)
}
