package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"patient-registry/internal/domain/entity"
	"patient-registry/internal/domain/repository"
	"patient-registry/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ repository.PatientRepository = (*mockPatientRepository)(nil)

// mockPatientRepository answers "not found" for every lookup unless a func is set.
type mockPatientRepository struct {
	findByIDFunc               func(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	findByCPFFunc              func(ctx context.Context, cpf string) (*entity.Patient, error)
	findByRGFunc               func(ctx context.Context, rg string) (*entity.Patient, error)
	findByPhoneFunc            func(ctx context.Context, phone string) (*entity.Patient, error)
	findByEmailFunc            func(ctx context.Context, email string) (*entity.Patient, error)
	existsByCPFExcludingIDFunc func(ctx context.Context, cpf string, id uuid.UUID) (bool, error)
	existsByRGExcludingIDFunc  func(ctx context.Context, rg string, id uuid.UUID) (bool, error)
	existsByIDFunc             func(ctx context.Context, id uuid.UUID) (bool, error)
	findActiveFunc             func(ctx context.Context) ([]entity.Patient, error)
	findActivePaginatedFunc    func(ctx context.Context, req entity.PageRequest) (*entity.PatientPage, error)
	findActiveFilteredFunc     func(ctx context.Context, name string, req entity.PageRequest) (*entity.PatientPage, error)
	findByNameSubstringFunc    func(ctx context.Context, name string) ([]entity.Patient, error)
	findByCityFunc             func(ctx context.Context, city string) ([]entity.Patient, error)
	findByStateFunc            func(ctx context.Context, state string) ([]entity.Patient, error)
	findByBirthDateRangeFunc   func(ctx context.Context, start, end time.Time) ([]entity.Patient, error)
	countActiveFunc            func(ctx context.Context) (int64, error)
	createFunc                 func(ctx context.Context, patient *entity.Patient) error
	updateFunc                 func(ctx context.Context, patient *entity.Patient) error
	deleteByIDFunc             func(ctx context.Context, id uuid.UUID) (int64, error)

	createCalls int32
	updateCalls int32
	deleteCalls int32
}

func (m *mockPatientRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByCPF(ctx context.Context, db *gorm.DB, cpf string) (*entity.Patient, error) {
	if m.findByCPFFunc != nil {
		return m.findByCPFFunc(ctx, cpf)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByRG(ctx context.Context, db *gorm.DB, rg string) (*entity.Patient, error) {
	if m.findByRGFunc != nil {
		return m.findByRGFunc(ctx, rg)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*entity.Patient, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

func (m *mockPatientRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Patient, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockPatientRepository) ExistsByCPFExcludingID(ctx context.Context, db *gorm.DB, cpf string, id uuid.UUID) (bool, error) {
	if m.existsByCPFExcludingIDFunc != nil {
		return m.existsByCPFExcludingIDFunc(ctx, cpf, id)
	}
	return false, nil
}

func (m *mockPatientRepository) ExistsByRGExcludingID(ctx context.Context, db *gorm.DB, rg string, id uuid.UUID) (bool, error) {
	if m.existsByRGExcludingIDFunc != nil {
		return m.existsByRGExcludingIDFunc(ctx, rg, id)
	}
	return false, nil
}

func (m *mockPatientRepository) ExistsByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error) {
	if m.existsByIDFunc != nil {
		return m.existsByIDFunc(ctx, id)
	}
	return false, nil
}

func (m *mockPatientRepository) FindActive(ctx context.Context, db *gorm.DB) ([]entity.Patient, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx)
	}
	return nil, errors.New("findActiveFunc not implemented in mock")
}

func (m *mockPatientRepository) FindActivePaginated(ctx context.Context, db *gorm.DB, req entity.PageRequest) (*entity.PatientPage, error) {
	if m.findActivePaginatedFunc != nil {
		return m.findActivePaginatedFunc(ctx, req)
	}
	return nil, errors.New("findActivePaginatedFunc not implemented in mock")
}

func (m *mockPatientRepository) FindActiveFiltered(ctx context.Context, db *gorm.DB, name string, req entity.PageRequest) (*entity.PatientPage, error) {
	if m.findActiveFilteredFunc != nil {
		return m.findActiveFilteredFunc(ctx, name, req)
	}
	return nil, errors.New("findActiveFilteredFunc not implemented in mock")
}

func (m *mockPatientRepository) FindByNameSubstring(ctx context.Context, db *gorm.DB, name string) ([]entity.Patient, error) {
	if m.findByNameSubstringFunc != nil {
		return m.findByNameSubstringFunc(ctx, name)
	}
	return nil, errors.New("findByNameSubstringFunc not implemented in mock")
}

func (m *mockPatientRepository) FindByCity(ctx context.Context, db *gorm.DB, city string) ([]entity.Patient, error) {
	if m.findByCityFunc != nil {
		return m.findByCityFunc(ctx, city)
	}
	return nil, errors.New("findByCityFunc not implemented in mock")
}

func (m *mockPatientRepository) FindByState(ctx context.Context, db *gorm.DB, state string) ([]entity.Patient, error) {
	if m.findByStateFunc != nil {
		return m.findByStateFunc(ctx, state)
	}
	return nil, errors.New("findByStateFunc not implemented in mock")
}

func (m *mockPatientRepository) FindByBirthDateRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]entity.Patient, error) {
	if m.findByBirthDateRangeFunc != nil {
		return m.findByBirthDateRangeFunc(ctx, start, end)
	}
	return nil, errors.New("findByBirthDateRangeFunc not implemented in mock")
}

func (m *mockPatientRepository) CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	if m.countActiveFunc != nil {
		return m.countActiveFunc(ctx)
	}
	return 0, nil
}

func (m *mockPatientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	atomic.AddInt32(&m.createCalls, 1)
	if m.createFunc != nil {
		return m.createFunc(ctx, patient)
	}
	patient.ID = uuid.New()
	return nil
}

func (m *mockPatientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	atomic.AddInt32(&m.updateCalls, 1)
	if m.updateFunc != nil {
		return m.updateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepository) DeleteByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	atomic.AddInt32(&m.deleteCalls, 1)
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return 1, nil
}

var _ service.AuditService = (*mockAuditService)(nil)

type auditCall struct {
	action   string
	entityID string
	oldValue interface{}
	newValue interface{}
}

type mockAuditService struct {
	err   error
	calls []auditCall
}

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	m.calls = append(m.calls, auditCall{action: action, entityID: entityID, newValue: newValue})
	return m.err
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	m.calls = append(m.calls, auditCall{action: action, entityID: entityID, oldValue: oldValue, newValue: newValue})
	return m.err
}

func (m *mockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	m.calls = append(m.calls, auditCall{action: action, entityID: entityID, oldValue: oldValue})
	return m.err
}

var _ service.UniqueKeyGuard = (*mockKeyGuard)(nil)

type mockKeyGuard struct {
	reserveFunc func(ctx context.Context, keys ...service.UniqueKey) (func(), error)

	reserved [][]service.UniqueKey
	released int32
}

func (m *mockKeyGuard) Reserve(ctx context.Context, keys ...service.UniqueKey) (func(), error) {
	m.reserved = append(m.reserved, keys)
	if m.reserveFunc != nil {
		return m.reserveFunc(ctx, keys...)
	}
	return func() { atomic.AddInt32(&m.released, 1) }, nil
}
