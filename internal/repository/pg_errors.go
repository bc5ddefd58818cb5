package repository

import (
	"errors"
	"strings"

	"patient-registry/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"

	constraintPatientCPF   = "uq_patients_cpf"
	constraintPatientRG    = "uq_patients_rg"
	constraintPatientPhone = "uq_patients_phone"
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// translatePatientWriteError maps unique violations on the patient keys to a
// DuplicateKeyError and wraps everything else as a StorageError.
func translatePatientWriteError(op string, err error, patient *entity.Patient) error {
	if err == nil {
		return nil
	}
	switch {
	case isDuplicateKeyError(err, constraintPatientCPF):
		return &entity.DuplicateKeyError{Field: "cpf", Value: patient.CPF}
	case isDuplicateKeyError(err, constraintPatientRG):
		return &entity.DuplicateKeyError{Field: "rg", Value: patient.RG}
	case isDuplicateKeyError(err, constraintPatientPhone):
		return &entity.DuplicateKeyError{Field: "phone", Value: patient.Phone}
	}
	return &entity.StorageError{Op: op, Err: err}
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
