package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patient-registry/internal/converter"
	"patient-registry/internal/delivery/dto"
	"patient-registry/internal/domain/entity"
	"patient-registry/internal/usecase"
	"patient-registry/pkg/response"
	"patient-registry/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

// Create handles patient registration
// @Summary Register a new patient
// @Tags Patients
// @Accept json
// @Produce json
// @Param request body dto.PatientRequest true "Patient"
// @Success 201 {object} dto.PatientResponse
// @Failure 400 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePatientRequest(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), req)
	if err != nil {
		writeMutationError(w, err, "Failed to create patient")
		return
	}

	response.JSON(w, http.StatusCreated, patient)
}

// GetByID handles getting a patient by ID
// @Summary Get patient by ID
// @Tags Patients
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} dto.PatientResponse
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), id)
	if err != nil {
		writeReadError(w, err, "Failed to get patient")
		return
	}

	response.JSON(w, http.StatusOK, patient)
}

// Exists answers HEAD /patients/{id} with 200 or 404 and no body
func (h *PatientHandler) Exists(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	exists, err := h.patientUsecase.PatientExists(r.Context(), id)
	switch {
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
	case !exists:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// List handles the paginated active listing
// @Summary List active patients
// @Tags Patients
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Param sort query string false "asc or desc by name" default(asc)
// @Param name query string false "Case-insensitive name filter"
// @Success 200 {object} dto.PatientPageResponse
// @Router /patients [get]
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	result, err := h.patientUsecase.ListPatients(r.Context(), dto.PatientListQuery{
		Page: page,
		Size: size,
		Sort: q.Get("sort"),
		Name: q.Get("name"),
	})
	if err != nil {
		writeReadError(w, err, "Failed to list patients")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *PatientHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetAllActivePatients(r.Context())
	if err != nil {
		writeReadError(w, err, "Failed to get patients")
		return
	}

	response.JSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.SearchPatientsByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeReadError(w, err, "Failed to search patients")
		return
	}

	response.JSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) GetByCPF(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetPatientByCPF(r.Context(), mux.Vars(r)["cpf"])
	if err != nil {
		writeReadError(w, err, "Failed to get patient")
		return
	}

	response.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) GetByRG(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetPatientByRG(r.Context(), mux.Vars(r)["rg"])
	if err != nil {
		writeReadError(w, err, "Failed to get patient")
		return
	}

	response.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetPatientByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeReadError(w, err, "Failed to get patient")
		return
	}

	response.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) GetByCity(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetPatientsByCity(r.Context(), mux.Vars(r)["city"])
	if err != nil {
		writeReadError(w, err, "Failed to get patients")
		return
	}

	response.JSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) GetByState(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetPatientsByState(r.Context(), mux.Vars(r)["state"])
	if err != nil {
		writeReadError(w, err, "Failed to get patients")
		return
	}

	response.JSON(w, http.StatusOK, patients)
}

// GetByBirthDateRange handles GET /patients/age-range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *PatientHandler) GetByBirthDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(converter.DateLayout, q.Get("start"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "start must be a date in YYYY-MM-DD format", nil)
		return
	}
	end, err := time.Parse(converter.DateLayout, q.Get("end"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "end must be a date in YYYY-MM-DD format", nil)
		return
	}

	patients, err := h.patientUsecase.GetPatientsByBirthDateRange(r.Context(), start, end)
	if err != nil {
		writeReadError(w, err, "Failed to get patients")
		return
	}

	response.JSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) Count(w http.ResponseWriter, r *http.Request) {
	total, err := h.patientUsecase.CountActivePatients(r.Context())
	if err != nil {
		writeReadError(w, err, "Failed to count patients")
		return
	}

	response.JSON(w, http.StatusOK, dto.PatientCountResponse{TotalActive: total})
}

// Update handles patient update
// @Summary Update a patient
// @Tags Patients
// @Accept json
// @Produce json
// @Param id path string true "Patient ID"
// @Param request body dto.PatientRequest true "Patient"
// @Success 200 {object} dto.PatientResponse
// @Failure 400 {object} response.Response
// @Router /patients/{id} [put]
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodePatientRequest(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), id, req)
	if err != nil {
		writeMutationError(w, err, "Failed to update patient")
		return
	}

	response.JSON(w, http.StatusOK, patient)
}

func (h *PatientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.DeactivatePatient(r.Context(), id)
	if err != nil {
		writeMutationError(w, err, "Failed to deactivate patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deactivated successfully", patient)
}

func (h *PatientHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.ReactivatePatient(r.Context(), id)
	if err != nil {
		writeMutationError(w, err, "Failed to reactivate patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient reactivated successfully", patient)
}

// Delete handles permanent removal
// @Summary Permanently delete a patient
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients/{id} [delete]
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePatientID(w, r)
	if !ok {
		return
	}

	patient, err := h.patientUsecase.DeletePatient(r.Context(), id)
	if err != nil {
		writeMutationError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", patient)
}

func (h *PatientHandler) decodePatientRequest(w http.ResponseWriter, r *http.Request) (*dto.PatientRequest, bool) {
	var req dto.PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		// a missing required field outranks width and format problems
		if requiredErr := missingRequiredField(&req); requiredErr != nil {
			writeBusinessError(w, requiredErr)
			return nil, false
		}
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}

	return &req, true
}

func missingRequiredField(req *dto.PatientRequest) error {
	return entity.ValidatePatient(&entity.Patient{
		Name:    req.Name,
		CPF:     req.CPF,
		RG:      req.RG,
		Sex:     entity.Sex(req.Sex),
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
	})
}

func parsePatientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// writeMutationError maps usecase errors on create/update/lifecycle calls.
// An unknown id is a business-rule failure here, hence 400.
func writeMutationError(w http.ResponseWriter, err error, fallback string) {
	if writeBusinessError(w, err) {
		return
	}

	var notFoundErr *entity.NotFoundError
	if errors.As(err, &notFoundErr) {
		response.Error(w, http.StatusBadRequest, notFoundErr.Error(), nil)
		return
	}

	response.InternalServerError(w, fallback)
}

// writeReadError maps usecase errors on lookups, where a miss is a 404.
func writeReadError(w http.ResponseWriter, err error, fallback string) {
	if writeBusinessError(w, err) {
		return
	}

	if errors.Is(err, entity.ErrPatientNotFound) {
		response.NotFound(w, capitalize(err.Error()))
		return
	}

	response.InternalServerError(w, fallback)
}

func writeBusinessError(w http.ResponseWriter, err error) bool {
	var (
		validationErr *entity.ValidationError
		duplicateErr  *entity.DuplicateKeyError
		transitionErr *entity.InvalidTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		response.Error(w, http.StatusBadRequest, validationErr.Reason, nil)
	case errors.As(err, &duplicateErr):
		response.Error(w, http.StatusBadRequest, duplicateErr.Error(), nil)
	case errors.As(err, &transitionErr):
		response.Error(w, http.StatusBadRequest, transitionErr.Error(), nil)
	default:
		return false
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
