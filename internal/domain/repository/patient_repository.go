package repository

import (
	"context"
	"time"

	"patient-registry/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientRepository is the persistence boundary for patients.
// Every method takes the *gorm.DB to run on so callers can pass a transaction.
type PatientRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByCPF(ctx context.Context, db *gorm.DB, cpf string) (*entity.Patient, error)
	FindByRG(ctx context.Context, db *gorm.DB, rg string) (*entity.Patient, error)
	FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*entity.Patient, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Patient, error)

	ExistsByCPFExcludingID(ctx context.Context, db *gorm.DB, cpf string, id uuid.UUID) (bool, error)
	ExistsByRGExcludingID(ctx context.Context, db *gorm.DB, rg string, id uuid.UUID) (bool, error)
	ExistsByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error)

	FindActive(ctx context.Context, db *gorm.DB) ([]entity.Patient, error)
	FindActivePaginated(ctx context.Context, db *gorm.DB, req entity.PageRequest) (*entity.PatientPage, error)
	FindActiveFiltered(ctx context.Context, db *gorm.DB, name string, req entity.PageRequest) (*entity.PatientPage, error)
	FindByNameSubstring(ctx context.Context, db *gorm.DB, name string) ([]entity.Patient, error)
	FindByCity(ctx context.Context, db *gorm.DB, city string) ([]entity.Patient, error)
	FindByState(ctx context.Context, db *gorm.DB, state string) ([]entity.Patient, error)
	FindByBirthDateRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]entity.Patient, error)
	CountActive(ctx context.Context, db *gorm.DB) (int64, error)

	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	DeleteByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
