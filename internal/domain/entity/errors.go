package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrPatientNotFound = errors.New("patient not found")

// ValidationError reports the first required field that is missing or blank
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// DuplicateKeyError reports a collision on one of the unique patient keys (cpf, rg, phone)
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already registered: %s", duplicateFieldLabel(e.Field), e.Value)
}

func duplicateFieldLabel(field string) string {
	switch field {
	case "cpf", "rg":
		return strings.ToUpper(field)
	case "phone":
		return "Phone"
	}
	return field
}

// NotFoundError is returned when a patient lookup by identifier or unique key misses
type NotFoundError struct {
	ID    uuid.UUID
	Field string
	Value string
}

func (e *NotFoundError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("patient not found with %s: %s", e.Field, e.Value)
	}
	return fmt.Sprintf("patient not found with id: %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPatientNotFound
}

// StorageError wraps a backing-store failure
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("patient cannot move from %s to %s", e.From, e.To)
}
