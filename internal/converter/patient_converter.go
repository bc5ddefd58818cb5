package converter

import (
	"strings"
	"time"

	"patient-registry/internal/delivery/dto"
	"patient-registry/internal/domain/entity"
)

const DateLayout = "2006-01-02"

// PatientRequestToEntity builds a candidate record from a request body.
// Values are kept as sent; only the birth date is parsed.
func PatientRequestToEntity(req *dto.PatientRequest) (*entity.Patient, error) {
	if req == nil {
		return nil, &entity.ValidationError{Reason: "patient is required"}
	}

	patient := &entity.Patient{
		Name:       req.Name,
		CPF:        req.CPF,
		RG:         req.RG,
		Sex:        entity.Sex(req.Sex),
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	}

	if strings.TrimSpace(req.BirthDate) != "" {
		birthDate, err := time.Parse(DateLayout, strings.TrimSpace(req.BirthDate))
		if err != nil {
			return nil, &entity.ValidationError{Reason: "birth_date must be a date in YYYY-MM-DD format"}
		}
		patient.BirthDate = &birthDate
	}

	if patient.Sex != "" && !patient.Sex.IsValid() {
		return nil, &entity.ValidationError{Reason: "sex must be one of MALE, FEMALE, OTHER"}
	}

	return patient, nil
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	resp := &dto.PatientResponse{
		ID:           patient.ID,
		Name:         patient.Name,
		CPF:          patient.CPF,
		RG:           patient.RG,
		Sex:          string(patient.Sex),
		Phone:        patient.Phone,
		Email:        patient.Email,
		Address:      patient.Address,
		City:         patient.City,
		State:        patient.State,
		PostalCode:   patient.PostalCode,
		Notes:        patient.Notes,
		RegisteredAt: patient.RegisteredAt,
		UpdatedAt:    patient.LastUpdatedAt,
		Status:       string(patient.Status),
		Active:       patient.IsActive(),
	}
	if patient.BirthDate != nil {
		resp.BirthDate = patient.BirthDate.Format(DateLayout)
	}

	return resp
}

// PatientsToResponses converts a slice of Patient entities to slice of PatientResponse DTOs
func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func PatientPageToResponse(page *entity.PatientPage) *dto.PatientPageResponse {
	if page == nil {
		return nil
	}

	return &dto.PatientPageResponse{
		Content:       PatientsToResponses(page.Patients),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.Page == 0,
		Last:          page.Page >= page.TotalPages-1,
	}
}
