package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string `json:"name" validate:"required,max=5"`
	Email     string `json:"email" validate:"omitempty,email"`
	Sex       string `json:"sex" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Code      string `json:"code" validate:"omitempty,min=3"`
}

func TestValidate_Valid(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&sample{Name: "Ana", Email: "ana@example.com", Sex: "FEMALE", BirthDate: "1990-01-31"}))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Email: "nope", Sex: "female", BirthDate: "31/01/1990", Code: "ab"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "email must be a valid email address", errs["email"])
	assert.Equal(t, "sex must be one of: MALE, FEMALE, OTHER", errs["sex"])
	assert.Equal(t, "birth_date must be a date in YYYY-MM-DD format", errs["birth_date"])
	assert.Equal(t, "code must be at least 3 characters", errs["code"])
}

func TestFormatValidationErrors_Max(t *testing.T) {
	v := NewValidator()

	errs := v.FormatValidationErrors(v.Validate(&sample{Name: "Too long"}))

	assert.Equal(t, map[string]string{"name": "name must be at most 5 characters"}, errs)
}
