package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// PatientRequest is the body of create and update calls.
// Required fields are checked by the domain validator so the first missing field
// is reported in a fixed order; tags here only check format and width.
type PatientRequest struct {
	Name       string `json:"name" validate:"max=100"`
	CPF        string `json:"cpf" validate:"max=14"`
	RG         string `json:"rg" validate:"max=20"`
	BirthDate  string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Sex        string `json:"sex" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone      string `json:"phone" validate:"max=15"`
	Email      string `json:"email" validate:"omitempty,email,max=100"`
	Address    string `json:"address" validate:"max=200"`
	City       string `json:"city" validate:"max=50"`
	State      string `json:"state" validate:"max=2"`
	PostalCode string `json:"postal_code" validate:"max=9"`
	Notes      string `json:"notes"`
}

// PatientListQuery holds the raw query parameters of the paginated listing
type PatientListQuery struct {
	Page int
	Size int
	Sort string
	Name string
}

// Response DTOs

type PatientResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	CPF          string     `json:"cpf"`
	RG           string     `json:"rg"`
	BirthDate    string     `json:"birth_date,omitempty"`
	Sex          string     `json:"sex"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email,omitempty"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	PostalCode   string     `json:"postal_code,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	Status       string     `json:"status"`
	Active       bool       `json:"active"`
}

type PatientPageResponse struct {
	Content       []PatientResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

type PatientCountResponse struct {
	TotalActive int64 `json:"total_active"`
}
