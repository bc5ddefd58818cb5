package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"patient-registry/config"
	"patient-registry/internal/delivery/dto"
	"patient-registry/internal/domain/entity"
	"patient-registry/internal/service"
	"patient-registry/pkg/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

type usecaseFixture struct {
	usecase   *patientUsecase
	sqlMock   sqlmock.Sqlmock
	repo      *mockPatientRepository
	audit     *mockAuditService
	guard     *mockKeyGuard
	collector *metrics.Collector
}

func newFixture(t *testing.T) *usecaseFixture {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &usecaseFixture{
		sqlMock:   mock,
		repo:      &mockPatientRepository{},
		audit:     &mockAuditService{},
		guard:     &mockKeyGuard{},
		collector: metrics.NewCollector("test"),
	}
	uc := NewPatientUsecase(db, log, f.repo, f.audit, f.guard, f.collector, config.PaginationConfig{DefaultSize: 10, MaxSize: 100}).(*patientUsecase)
	uc.now = func() time.Time { return fixedNow }
	f.usecase = uc

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return f
}

func validRequest() *dto.PatientRequest {
	return &dto.PatientRequest{
		Name:      "Ana Souza",
		CPF:       "111",
		RG:        "A1",
		BirthDate: "1990-04-12",
		Sex:       "FEMALE",
		Phone:     "555-0001",
		Email:     "ana@example.com",
		Address:   "Rua das Flores, 10",
		City:      "Recife",
		State:     "PE",
	}
}

func storedPatient(id uuid.UUID) *entity.Patient {
	registered := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return &entity.Patient{
		ID:           id,
		Name:         "Ana Souza",
		CPF:          "111",
		RG:           "A1",
		Sex:          entity.SexFemale,
		Phone:        "555-0001",
		Address:      "Rua das Flores, 10",
		City:         "Recife",
		State:        "PE",
		RegisteredAt: registered,
		Status:       entity.StatusActive,
	}
}

func TestCreatePatient_Success(t *testing.T) {
	f := newFixture(t)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()

	resp, err := f.usecase.CreatePatient(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.True(t, resp.Active)
	assert.Equal(t, fixedNow, resp.RegisteredAt)
	assert.Nil(t, resp.UpdatedAt)
	assert.Equal(t, "1990-04-12", resp.BirthDate)

	assert.Equal(t, int32(1), f.repo.createCalls)
	require.Len(t, f.guard.reserved, 1)
	assert.Equal(t, []service.UniqueKey{
		{Field: "cpf", Value: "111"},
		{Field: "rg", Value: "A1"},
		{Field: "phone", Value: "555-0001"},
	}, f.guard.reserved[0])
	assert.Equal(t, int32(1), f.guard.released)

	require.Len(t, f.audit.calls, 1)
	assert.Equal(t, entity.AuditActionPatientCreate, f.audit.calls[0].action)
	assert.Equal(t, resp.ID.String(), f.audit.calls[0].entityID)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.collector.PatientsCreatedTotal))
}

func TestCreatePatient_ValidationRunsBeforeStorage(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.Name = "   "
	req.CPF = ""

	_, err := f.usecase.CreatePatient(context.Background(), req)

	var validationErr *entity.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name is required", validationErr.Reason)
	assert.Equal(t, int32(0), f.repo.createCalls)
	assert.Empty(t, f.guard.reserved)
}

func TestCreatePatient_InvalidBirthDate(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.BirthDate = "12/04/1990"

	_, err := f.usecase.CreatePatient(context.Background(), req)

	var validationErr *entity.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, int32(0), f.repo.createCalls)
}

func TestCreatePatient_DuplicateCPF(t *testing.T) {
	f := newFixture(t)
	f.repo.findByCPFFunc = func(ctx context.Context, cpf string) (*entity.Patient, error) {
		holder := storedPatient(uuid.New())
		holder.Status = entity.StatusInactive
		return holder, nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.usecase.CreatePatient(context.Background(), validRequest())

	var dupErr *entity.DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "cpf", dupErr.Field)
	assert.EqualError(t, err, "CPF already registered: 111")
	assert.Equal(t, int32(0), f.repo.createCalls)
	assert.Empty(t, f.audit.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.collector.DuplicateKeysTotal.WithLabelValues("cpf")))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.collector.PatientsCreatedTotal))
}

func TestCreatePatient_DuplicatePhone(t *testing.T) {
	f := newFixture(t)
	f.repo.findByPhoneFunc = func(ctx context.Context, phone string) (*entity.Patient, error) {
		return storedPatient(uuid.New()), nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.usecase.CreatePatient(context.Background(), validRequest())

	assert.EqualError(t, err, "Phone already registered: 555-0001")
}

func TestCreatePatient_KeyReservedByConcurrentWrite(t *testing.T) {
	f := newFixture(t)
	f.guard.reserveFunc = func(ctx context.Context, keys ...service.UniqueKey) (func(), error) {
		return nil, &service.KeyReservedError{Key: keys[1]}
	}

	_, err := f.usecase.CreatePatient(context.Background(), validRequest())

	var dupErr *entity.DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "rg", dupErr.Field)
	assert.Equal(t, "A1", dupErr.Value)
	assert.Equal(t, int32(0), f.repo.createCalls)
}

func TestCreatePatient_ConstraintViolationOnInsert(t *testing.T) {
	f := newFixture(t)
	f.repo.createFunc = func(ctx context.Context, patient *entity.Patient) error {
		return &entity.DuplicateKeyError{Field: "cpf", Value: patient.CPF}
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.usecase.CreatePatient(context.Background(), validRequest())

	var dupErr *entity.DuplicateKeyError
	assert.True(t, errors.As(err, &dupErr))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.collector.DuplicateKeysTotal.WithLabelValues("cpf")))
}

func TestCreatePatient_AuditFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.audit.err = errors.New("audit_logs unavailable")
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()

	resp, err := f.usecase.CreatePatient(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", resp.Name)
}

func TestCreatePatient_CommitFailure(t *testing.T) {
	f := newFixture(t)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	_, err := f.usecase.CreatePatient(context.Background(), validRequest())

	var storageErr *entity.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.collector.PatientsCreatedTotal))
}

func TestUpdatePatient_PreservesIdentityAndLifecycle(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	existing := storedPatient(id)
	existing.Status = entity.StatusInactive
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		assert.Equal(t, id, got)
		return existing, nil
	}
	var saved *entity.Patient
	f.repo.updateFunc = func(ctx context.Context, patient *entity.Patient) error {
		saved = patient
		return nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()

	req := validRequest()
	req.Name = "Ana Lima"
	req.City = "Olinda"
	resp, err := f.usecase.UpdatePatient(context.Background(), id, req)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "Ana Lima", resp.Name)
	assert.Equal(t, "Olinda", resp.City)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), resp.RegisteredAt)
	assert.Equal(t, "INACTIVE", resp.Status)
	require.NotNil(t, resp.UpdatedAt)
	assert.Equal(t, fixedNow, *resp.UpdatedAt)

	// unchanged keys are neither reserved nor re-checked
	require.Len(t, f.guard.reserved, 1)
	assert.Empty(t, f.guard.reserved[0])

	require.Len(t, f.audit.calls, 1)
	before := f.audit.calls[0].oldValue.(*dto.PatientResponse)
	assert.Equal(t, "Ana Souza", before.Name)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.collector.PatientLifecycleTotal.WithLabelValues("update")))
}

func TestUpdatePatient_CPFTakenByAnotherRecord(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return storedPatient(id), nil
	}
	f.repo.existsByCPFExcludingIDFunc = func(ctx context.Context, cpf string, excluded uuid.UUID) (bool, error) {
		assert.Equal(t, "222", cpf)
		assert.Equal(t, id, excluded)
		return true, nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	req := validRequest()
	req.CPF = "222"
	_, err := f.usecase.UpdatePatient(context.Background(), id, req)

	assert.EqualError(t, err, "CPF already registered: 222")
	assert.Equal(t, int32(0), f.repo.updateCalls)
	require.Len(t, f.guard.reserved, 1)
	assert.Equal(t, []service.UniqueKey{{Field: "cpf", Value: "222"}}, f.guard.reserved[0])
}

func TestUpdatePatient_RGTakenByAnotherRecord(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return storedPatient(id), nil
	}
	f.repo.existsByRGExcludingIDFunc = func(ctx context.Context, rg string, excluded uuid.UUID) (bool, error) {
		return true, nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	req := validRequest()
	req.RG = "B2"
	_, err := f.usecase.UpdatePatient(context.Background(), id, req)

	assert.EqualError(t, err, "RG already registered: B2")
}

func TestUpdatePatient_PhoneTakenByAnotherRecord(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return storedPatient(id), nil
	}
	// phone has no pre-check; the unique constraint rejects it on save
	f.repo.updateFunc = func(ctx context.Context, patient *entity.Patient) error {
		return &entity.DuplicateKeyError{Field: "phone", Value: patient.Phone}
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	req := validRequest()
	req.Phone = "555-0002"
	_, err := f.usecase.UpdatePatient(context.Background(), id, req)

	var dupErr *entity.DuplicateKeyError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "phone", dupErr.Field)
	assert.Equal(t, "555-0002", dupErr.Value)
	assert.EqualError(t, err, "Phone already registered: 555-0002")

	assert.Equal(t, int32(1), f.repo.updateCalls)
	assert.Empty(t, f.audit.calls)
	require.Len(t, f.guard.reserved, 1)
	assert.Equal(t, []service.UniqueKey{{Field: "phone", Value: "555-0002"}}, f.guard.reserved[0])
	assert.Equal(t, float64(1), testutil.ToFloat64(f.collector.DuplicateKeysTotal.WithLabelValues("phone")))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.collector.PatientLifecycleTotal.WithLabelValues("update")))
}

func TestUpdatePatient_NotFound(t *testing.T) {
	f := newFixture(t)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	id := uuid.New()
	_, err := f.usecase.UpdatePatient(context.Background(), id, validRequest())

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
	assert.EqualError(t, err, "patient not found with id: "+id.String())
	assert.Equal(t, int32(0), f.repo.updateCalls)
}

func TestUpdatePatient_InvalidData(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return storedPatient(id), nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	req := validRequest()
	req.State = ""
	_, err := f.usecase.UpdatePatient(context.Background(), id, req)

	assert.EqualError(t, err, "state is required")
	assert.Equal(t, int32(0), f.repo.updateCalls)
}

func TestDeactivateAndReactivatePatient(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	patient := storedPatient(id)
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return patient, nil
	}
	for i := 0; i < 3; i++ {
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()
	}

	resp, err := f.usecase.DeactivatePatient(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", resp.Status)
	assert.False(t, resp.Active)

	resp, err = f.usecase.DeactivatePatient(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", resp.Status)

	resp, err = f.usecase.ReactivatePatient(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.True(t, resp.Active)
	assert.Equal(t, fixedNow, *resp.UpdatedAt)

	assert.Equal(t, int32(3), f.repo.updateCalls)
	require.Len(t, f.audit.calls, 3)
	assert.Equal(t, entity.AuditActionPatientDeactivate, f.audit.calls[0].action)
	assert.Equal(t, entity.AuditActionPatientReactivate, f.audit.calls[2].action)
	assert.Equal(t, float64(2), testutil.ToFloat64(f.collector.PatientLifecycleTotal.WithLabelValues("deactivate")))
}

func TestDeactivatePatient_NotFound(t *testing.T) {
	f := newFixture(t)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.usecase.DeactivatePatient(context.Background(), uuid.New())

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestDeletePatient_ReturnsDeletedSnapshot(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return storedPatient(id), nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectCommit()

	resp, err := f.usecase.DeletePatient(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "DELETED", resp.Status)
	assert.False(t, resp.Active)
	assert.Equal(t, int32(1), f.repo.deleteCalls)

	require.Len(t, f.audit.calls, 1)
	assert.Equal(t, entity.AuditActionPatientDelete, f.audit.calls[0].action)
	before := f.audit.calls[0].oldValue.(*dto.PatientResponse)
	assert.Equal(t, "ACTIVE", before.Status)
}

func TestDeletePatient_NotFound(t *testing.T) {
	f := newFixture(t)
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.usecase.DeletePatient(context.Background(), uuid.New())

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
	assert.Equal(t, int32(0), f.repo.deleteCalls)
	assert.Empty(t, f.audit.calls)
}

func TestDeletePatient_RowVanishedConcurrently(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return storedPatient(id), nil
	}
	f.repo.deleteByIDFunc = func(ctx context.Context, got uuid.UUID) (int64, error) {
		return 0, nil
	}
	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.usecase.DeletePatient(context.Background(), id)

	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestGetPatient(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		if got == id {
			return storedPatient(id), nil
		}
		return nil, nil
	}

	resp, err := f.usecase.GetPatient(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", resp.Name)

	_, err = f.usecase.GetPatient(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestGetPatient_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.findByIDFunc = func(ctx context.Context, got uuid.UUID) (*entity.Patient, error) {
		return nil, &entity.StorageError{Op: "find patient by id", Err: errors.New("timeout")}
	}

	_, err := f.usecase.GetPatient(context.Background(), uuid.New())

	var storageErr *entity.StorageError
	assert.True(t, errors.As(err, &storageErr))
}

func TestGetPatientByKeys_NotFoundMessages(t *testing.T) {
	f := newFixture(t)

	_, err := f.usecase.GetPatientByCPF(context.Background(), "999")
	assert.EqualError(t, err, "patient not found with cpf: 999")

	_, err = f.usecase.GetPatientByRG(context.Background(), "Z9")
	assert.EqualError(t, err, "patient not found with rg: Z9")

	_, err = f.usecase.GetPatientByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, entity.ErrPatientNotFound)
}

func TestPatientExists(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.existsByIDFunc = func(ctx context.Context, got uuid.UUID) (bool, error) {
		return got == id, nil
	}

	exists, err := f.usecase.PatientExists(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.usecase.PatientExists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListPatients_NormalizesPageRequest(t *testing.T) {
	tests := []struct {
		name  string
		query dto.PatientListQuery
		want  entity.PageRequest
	}{
		{"defaults", dto.PatientListQuery{}, entity.PageRequest{Page: 0, Size: 10, Direction: entity.SortAsc}},
		{"negative page", dto.PatientListQuery{Page: -3, Size: 5}, entity.PageRequest{Page: 0, Size: 5, Direction: entity.SortAsc}},
		{"oversized", dto.PatientListQuery{Page: 2, Size: 1000}, entity.PageRequest{Page: 2, Size: 100, Direction: entity.SortAsc}},
		{"desc any case", dto.PatientListQuery{Size: 20, Sort: "DeSc"}, entity.PageRequest{Page: 0, Size: 20, Direction: entity.SortDesc}},
		{"unknown sort", dto.PatientListQuery{Sort: "sideways"}, entity.PageRequest{Page: 0, Size: 10, Direction: entity.SortAsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var got entity.PageRequest
			f.repo.findActivePaginatedFunc = func(ctx context.Context, req entity.PageRequest) (*entity.PatientPage, error) {
				got = req
				return entity.NewPatientPage(nil, req, 0), nil
			}

			_, err := f.usecase.ListPatients(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListPatients_PageBeyondEnd(t *testing.T) {
	f := newFixture(t)
	f.repo.findActivePaginatedFunc = func(ctx context.Context, req entity.PageRequest) (*entity.PatientPage, error) {
		return entity.NewPatientPage(nil, req, 15), nil
	}

	resp, err := f.usecase.ListPatients(context.Background(), dto.PatientListQuery{Page: 5, Size: 10})
	require.NoError(t, err)

	assert.NotNil(t, resp.Content)
	assert.Empty(t, resp.Content)
	assert.Equal(t, int64(15), resp.TotalElements)
	assert.Equal(t, 2, resp.TotalPages)
	assert.True(t, resp.Last)
	assert.False(t, resp.First)
}

func TestListPatients_NameFilter(t *testing.T) {
	f := newFixture(t)
	var gotName string
	f.repo.findActiveFilteredFunc = func(ctx context.Context, name string, req entity.PageRequest) (*entity.PatientPage, error) {
		gotName = name
		return entity.NewPatientPage([]entity.Patient{*storedPatient(uuid.New())}, req, 1), nil
	}

	resp, err := f.usecase.ListPatients(context.Background(), dto.PatientListQuery{Name: "  sou  "})
	require.NoError(t, err)

	assert.Equal(t, "sou", gotName)
	assert.Len(t, resp.Content, 1)
	assert.True(t, resp.First)
	assert.True(t, resp.Last)
}

func TestSearchPatientsByName(t *testing.T) {
	f := newFixture(t)
	f.repo.findActiveFunc = func(ctx context.Context) ([]entity.Patient, error) {
		return []entity.Patient{*storedPatient(uuid.New()), *storedPatient(uuid.New())}, nil
	}
	f.repo.findByNameSubstringFunc = func(ctx context.Context, name string) ([]entity.Patient, error) {
		assert.Equal(t, "ana", name)
		return []entity.Patient{*storedPatient(uuid.New())}, nil
	}

	all, err := f.usecase.SearchPatientsByName(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := f.usecase.SearchPatientsByName(context.Background(), "ana")
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestGetPatientsByBirthDateRange(t *testing.T) {
	f := newFixture(t)
	start := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)
	f.repo.findByBirthDateRangeFunc = func(ctx context.Context, s, e time.Time) ([]entity.Patient, error) {
		assert.Equal(t, start, s)
		assert.Equal(t, end, e)
		return []entity.Patient{}, nil
	}

	result, err := f.usecase.GetPatientsByBirthDateRange(context.Background(), start, end)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)

	_, err = f.usecase.GetPatientsByBirthDateRange(context.Background(), end, start)
	var validationErr *entity.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestCountActivePatients(t *testing.T) {
	f := newFixture(t)
	f.repo.countActiveFunc = func(ctx context.Context) (int64, error) {
		return 7, nil
	}

	total, err := f.usecase.CountActivePatients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}
