package repository

import (
	"context"
	"errors"
	"time"

	"patient-registry/internal/domain/entity"
	domainRepo "patient-registry/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.findOne(ctx, db, "find patient by id", "id = ?", id)
}

func (r *patientRepository) FindByCPF(ctx context.Context, db *gorm.DB, cpf string) (*entity.Patient, error) {
	return r.findOne(ctx, db, "find patient by cpf", "cpf = ?", cpf)
}

func (r *patientRepository) FindByRG(ctx context.Context, db *gorm.DB, rg string) (*entity.Patient, error) {
	return r.findOne(ctx, db, "find patient by rg", "rg = ?", rg)
}

func (r *patientRepository) FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*entity.Patient, error) {
	return r.findOne(ctx, db, "find patient by phone", "phone = ?", phone)
}

func (r *patientRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Patient, error) {
	return r.findOne(ctx, db, "find patient by email", "email = ?", email)
}

func (r *patientRepository) findOne(ctx context.Context, db *gorm.DB, op string, query string, arg interface{}) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where(query, arg).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &entity.StorageError{Op: op, Err: err}
	}
	return &patient, nil
}

func (r *patientRepository) ExistsByCPFExcludingID(ctx context.Context, db *gorm.DB, cpf string, id uuid.UUID) (bool, error) {
	return r.exists(ctx, db, "check cpf uniqueness", "cpf = ? AND id <> ?", cpf, id)
}

func (r *patientRepository) ExistsByRGExcludingID(ctx context.Context, db *gorm.DB, rg string, id uuid.UUID) (bool, error) {
	return r.exists(ctx, db, "check rg uniqueness", "rg = ? AND id <> ?", rg, id)
}

func (r *patientRepository) ExistsByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error) {
	return r.exists(ctx, db, "check patient existence", "id = ?", id)
}

func (r *patientRepository) exists(ctx context.Context, db *gorm.DB, op string, query string, args ...interface{}) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, &entity.StorageError{Op: op, Err: err}
	}
	return count > 0, nil
}

func (r *patientRepository) FindActive(ctx context.Context, db *gorm.DB) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).
		Where("status = ?", entity.StatusActive).
		Order("name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "find active patients", Err: err}
	}
	return patients, nil
}

func (r *patientRepository) FindActivePaginated(ctx context.Context, db *gorm.DB, req entity.PageRequest) (*entity.PatientPage, error) {
	order := "name ASC"
	if req.Direction == entity.SortDesc {
		order = "name DESC"
	}

	query := db.WithContext(ctx).Model(&entity.Patient{}).Where("status = ?", entity.StatusActive)
	return r.paginate(query, "list active patients", order, req)
}

func (r *patientRepository) FindActiveFiltered(ctx context.Context, db *gorm.DB, name string, req entity.PageRequest) (*entity.PatientPage, error) {
	query := db.WithContext(ctx).Model(&entity.Patient{}).
		Where("status = ?", entity.StatusActive).
		Where("name ILIKE ?", "%"+escapeLike(name)+"%")
	return r.paginate(query, "filter active patients", "name ASC", req)
}

func (r *patientRepository) paginate(query *gorm.DB, op string, order string, req entity.PageRequest) (*entity.PatientPage, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, &entity.StorageError{Op: op, Err: err}
	}

	var patients []entity.Patient
	if int64(req.Offset()) < total {
		err := query.Session(&gorm.Session{}).
			Order(order).
			Limit(req.Size).
			Offset(req.Offset()).
			Find(&patients).Error
		if err != nil {
			return nil, &entity.StorageError{Op: op, Err: err}
		}
	}

	return entity.NewPatientPage(patients, req, total), nil
}

func (r *patientRepository) FindByNameSubstring(ctx context.Context, db *gorm.DB, name string) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).
		Where("status = ?", entity.StatusActive).
		Where("name ILIKE ?", "%"+escapeLike(name)+"%").
		Order("name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "search patients by name", Err: err}
	}
	return patients, nil
}

func (r *patientRepository) FindByCity(ctx context.Context, db *gorm.DB, city string) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).Where("city = ?", city).Order("name ASC").Find(&patients).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "find patients by city", Err: err}
	}
	return patients, nil
}

func (r *patientRepository) FindByState(ctx context.Context, db *gorm.DB, state string) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).Where("state = ?", state).Order("name ASC").Find(&patients).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "find patients by state", Err: err}
	}
	return patients, nil
}

func (r *patientRepository) FindByBirthDateRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).
		Where("status = ?", entity.StatusActive).
		Where("birth_date BETWEEN ? AND ?", start, end).
		Order("birth_date ASC, name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "find patients by birth date range", Err: err}
	}
	return patients, nil
}

func (r *patientRepository) CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Patient{}).Where("status = ?", entity.StatusActive).Count(&total).Error
	if err != nil {
		return 0, &entity.StorageError{Op: "count active patients", Err: err}
	}
	return total, nil
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	err := db.WithContext(ctx).Create(patient).Error
	return translatePatientWriteError("create patient", err, patient)
}

// Update writes every column of an existing row. It never inserts.
func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	result := db.WithContext(ctx).Model(patient).Select("*").Omit("id").Updates(patient)
	if result.Error != nil {
		return translatePatientWriteError("update patient", result.Error, patient)
	}
	if result.RowsAffected == 0 {
		return &entity.NotFoundError{ID: patient.ID}
	}
	return nil
}

func (r *patientRepository) DeleteByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Patient{})
	if result.Error != nil {
		return 0, &entity.StorageError{Op: "delete patient", Err: result.Error}
	}
	return result.RowsAffected, nil
}
