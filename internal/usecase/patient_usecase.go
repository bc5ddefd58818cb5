package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"patient-registry/config"
	"patient-registry/internal/converter"
	"patient-registry/internal/delivery/dto"
	"patient-registry/internal/delivery/http/middleware"
	"patient-registry/internal/domain/entity"
	"patient-registry/internal/domain/repository"
	"patient-registry/internal/service"
	"patient-registry/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.PatientRequest) (*dto.PatientResponse, error)
	DeactivatePatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	ReactivatePatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)

	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListPatients(ctx context.Context, query dto.PatientListQuery) (*dto.PatientPageResponse, error)
	GetAllActivePatients(ctx context.Context) ([]dto.PatientResponse, error)
	SearchPatientsByName(ctx context.Context, name string) ([]dto.PatientResponse, error)
	GetPatientByCPF(ctx context.Context, cpf string) (*dto.PatientResponse, error)
	GetPatientByRG(ctx context.Context, rg string) (*dto.PatientResponse, error)
	GetPatientByEmail(ctx context.Context, email string) (*dto.PatientResponse, error)
	GetPatientsByCity(ctx context.Context, city string) ([]dto.PatientResponse, error)
	GetPatientsByState(ctx context.Context, state string) ([]dto.PatientResponse, error)
	GetPatientsByBirthDateRange(ctx context.Context, start, end time.Time) ([]dto.PatientResponse, error)
	CountActivePatients(ctx context.Context) (int64, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	keyGuard     service.UniqueKeyGuard
	metrics      *metrics.Collector
	pagination   config.PaginationConfig
	now          func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	keyGuard service.UniqueKeyGuard,
	collector *metrics.Collector,
	pagination config.PaginationConfig,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		patientRepo:  patientRepo,
		auditService: auditService,
		keyGuard:     keyGuard,
		metrics:      collector,
		pagination:   pagination,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	candidate, err := converter.PatientRequestToEntity(req)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidatePatient(candidate); err != nil {
		return nil, err
	}

	release, err := u.keyGuard.Reserve(ctx, uniqueKeysOf(candidate)...)
	if err != nil {
		return nil, u.duplicate(reservationToDuplicate(err))
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, &entity.StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	if err := u.ensureKeysAvailable(ctx, tx, candidate); err != nil {
		return nil, u.duplicate(err)
	}

	candidate.Register(u.now())
	if err := u.patientRepo.Create(ctx, tx, candidate); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, u.duplicate(err)
	}

	created := converter.PatientToResponse(candidate)
	if err := u.auditService.LogCreate(ctx, tx, actorFrom(ctx), entity.AuditActionPatientCreate, entity.AuditEntityPatient, candidate.ID.String(), created); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, commitError("create patient", err)
	}

	u.metrics.PatientsCreatedTotal.Inc()
	return created, nil
}

func (u *patientUsecase) UpdatePatient(ctx context.Context, id uuid.UUID, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, &entity.StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	existing, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if existing == nil {
		return nil, &entity.NotFoundError{ID: id}
	}

	candidate, err := converter.PatientRequestToEntity(req)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidatePatient(candidate); err != nil {
		return nil, err
	}

	release, err := u.keyGuard.Reserve(ctx, changedUniqueKeys(existing, candidate)...)
	if err != nil {
		return nil, u.duplicate(reservationToDuplicate(err))
	}
	defer release()

	if candidate.CPF != existing.CPF {
		taken, err := u.patientRepo.ExistsByCPFExcludingID(ctx, tx, candidate.CPF, id)
		if err != nil {
			u.log.Warnf("Failed to check cpf uniqueness: %+v", err)
			return nil, err
		}
		if taken {
			return nil, u.duplicate(&entity.DuplicateKeyError{Field: "cpf", Value: candidate.CPF})
		}
	}
	if candidate.RG != existing.RG {
		taken, err := u.patientRepo.ExistsByRGExcludingID(ctx, tx, candidate.RG, id)
		if err != nil {
			u.log.Warnf("Failed to check rg uniqueness: %+v", err)
			return nil, err
		}
		if taken {
			return nil, u.duplicate(&entity.DuplicateKeyError{Field: "rg", Value: candidate.RG})
		}
	}

	before := converter.PatientToResponse(existing)
	existing.ApplyChanges(candidate, u.now())

	if err := u.patientRepo.Update(ctx, tx, existing); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, u.duplicate(err)
	}

	after := converter.PatientToResponse(existing)
	if err := u.auditService.LogUpdate(ctx, tx, actorFrom(ctx), entity.AuditActionPatientUpdate, entity.AuditEntityPatient, id.String(), before, after); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, commitError("update patient", err)
	}

	u.metrics.PatientLifecycleTotal.WithLabelValues("update").Inc()
	return after, nil
}

func (u *patientUsecase) DeactivatePatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	return u.changeStatus(ctx, id, entity.AuditActionPatientDeactivate, "deactivate", (*entity.Patient).Deactivate)
}

func (u *patientUsecase) ReactivatePatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	return u.changeStatus(ctx, id, entity.AuditActionPatientReactivate, "reactivate", (*entity.Patient).Reactivate)
}

func (u *patientUsecase) changeStatus(ctx context.Context, id uuid.UUID, action string, label string, apply func(*entity.Patient, time.Time) error) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, &entity.StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, &entity.NotFoundError{ID: id}
	}

	before := converter.PatientToResponse(patient)
	if err := apply(patient, u.now()); err != nil {
		return nil, err
	}

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		u.log.Warnf("Failed to %s patient: %+v", label, err)
		return nil, err
	}

	after := converter.PatientToResponse(patient)
	if err := u.auditService.LogUpdate(ctx, tx, actorFrom(ctx), action, entity.AuditEntityPatient, id.String(), before, after); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, commitError(label+" patient", err)
	}

	u.metrics.PatientLifecycleTotal.WithLabelValues(label).Inc()
	return after, nil
}

// DeletePatient removes the row and returns the final snapshot in the DELETED state.
func (u *patientUsecase) DeletePatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, &entity.StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, &entity.NotFoundError{ID: id}
	}

	before := converter.PatientToResponse(patient)

	rows, err := u.patientRepo.DeleteByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, &entity.NotFoundError{ID: id}
	}

	if err := patient.MarkDeleted(); err != nil {
		return nil, err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFrom(ctx), entity.AuditActionPatientDelete, entity.AuditEntityPatient, id.String(), before); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, commitError("delete patient", err)
	}

	u.metrics.PatientLifecycleTotal.WithLabelValues("delete").Inc()
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, &entity.NotFoundError{ID: id}
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := u.patientRepo.ExistsByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to check patient existence: %+v", err)
		return false, err
	}
	return exists, nil
}

func (u *patientUsecase) ListPatients(ctx context.Context, query dto.PatientListQuery) (*dto.PatientPageResponse, error) {
	pageReq := u.normalizePageRequest(query)

	var (
		page *entity.PatientPage
		err  error
	)
	name := strings.TrimSpace(query.Name)
	if name == "" {
		page, err = u.patientRepo.FindActivePaginated(ctx, u.db, pageReq)
	} else {
		page, err = u.patientRepo.FindActiveFiltered(ctx, u.db, name, pageReq)
	}
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	return converter.PatientPageToResponse(page), nil
}

// normalizePageRequest clamps untrusted pagination input instead of rejecting it.
func (u *patientUsecase) normalizePageRequest(query dto.PatientListQuery) entity.PageRequest {
	page := query.Page
	if page < 0 {
		page = 0
	}

	size := query.Size
	if size < 1 {
		size = u.pagination.DefaultSize
	}
	if size > u.pagination.MaxSize {
		size = u.pagination.MaxSize
	}

	direction := entity.SortAsc
	if strings.EqualFold(strings.TrimSpace(query.Sort), string(entity.SortDesc)) {
		direction = entity.SortDesc
	}

	return entity.PageRequest{Page: page, Size: size, Direction: direction}
}

func (u *patientUsecase) GetAllActivePatients(ctx context.Context) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindActive(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find active patients: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

// SearchPatientsByName treats a blank name as no filter.
func (u *patientUsecase) SearchPatientsByName(ctx context.Context, name string) ([]dto.PatientResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return u.GetAllActivePatients(ctx)
	}

	patients, err := u.patientRepo.FindByNameSubstring(ctx, u.db, name)
	if err != nil {
		u.log.Warnf("Failed to search patients by name: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) GetPatientByCPF(ctx context.Context, cpf string) (*dto.PatientResponse, error) {
	return u.getByKey(ctx, "cpf", cpf, u.patientRepo.FindByCPF)
}

func (u *patientUsecase) GetPatientByRG(ctx context.Context, rg string) (*dto.PatientResponse, error) {
	return u.getByKey(ctx, "rg", rg, u.patientRepo.FindByRG)
}

func (u *patientUsecase) GetPatientByEmail(ctx context.Context, email string) (*dto.PatientResponse, error) {
	return u.getByKey(ctx, "email", email, u.patientRepo.FindByEmail)
}

func (u *patientUsecase) getByKey(ctx context.Context, field, value string, find func(context.Context, *gorm.DB, string) (*entity.Patient, error)) (*dto.PatientResponse, error) {
	patient, err := find(ctx, u.db, value)
	if err != nil {
		u.log.Warnf("Failed to find patient by %s: %+v", field, err)
		return nil, err
	}
	if patient == nil {
		return nil, &entity.NotFoundError{Field: field, Value: value}
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetPatientsByCity(ctx context.Context, city string) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindByCity(ctx, u.db, city)
	if err != nil {
		u.log.Warnf("Failed to find patients by city: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) GetPatientsByState(ctx context.Context, state string) ([]dto.PatientResponse, error) {
	patients, err := u.patientRepo.FindByState(ctx, u.db, state)
	if err != nil {
		u.log.Warnf("Failed to find patients by state: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) GetPatientsByBirthDateRange(ctx context.Context, start, end time.Time) ([]dto.PatientResponse, error) {
	if start.After(end) {
		return nil, &entity.ValidationError{Reason: "start date must not be after end date"}
	}

	patients, err := u.patientRepo.FindByBirthDateRange(ctx, u.db, start, end)
	if err != nil {
		u.log.Warnf("Failed to find patients by birth date range: %+v", err)
		return nil, err
	}
	return converter.PatientsToResponses(patients), nil
}

func (u *patientUsecase) CountActivePatients(ctx context.Context) (int64, error) {
	total, err := u.patientRepo.CountActive(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to count active patients: %+v", err)
		return 0, err
	}
	return total, nil
}

// ensureKeysAvailable rejects a new record whose cpf, rg or phone is already stored,
// whatever the lifecycle state of the holder.
func (u *patientUsecase) ensureKeysAvailable(ctx context.Context, tx *gorm.DB, candidate *entity.Patient) error {
	lookups := []struct {
		field string
		value string
		find  func(context.Context, *gorm.DB, string) (*entity.Patient, error)
	}{
		{"cpf", candidate.CPF, u.patientRepo.FindByCPF},
		{"rg", candidate.RG, u.patientRepo.FindByRG},
		{"phone", candidate.Phone, u.patientRepo.FindByPhone},
	}

	for _, lookup := range lookups {
		holder, err := lookup.find(ctx, tx, lookup.value)
		if err != nil {
			u.log.Warnf("Failed to check %s uniqueness: %+v", lookup.field, err)
			return err
		}
		if holder != nil {
			return &entity.DuplicateKeyError{Field: lookup.field, Value: lookup.value}
		}
	}
	return nil
}

// duplicate counts rejected unique keys and passes the error through.
func (u *patientUsecase) duplicate(err error) error {
	var dupErr *entity.DuplicateKeyError
	if errors.As(err, &dupErr) {
		u.metrics.DuplicateKeysTotal.WithLabelValues(dupErr.Field).Inc()
	}
	return err
}

func uniqueKeysOf(p *entity.Patient) []service.UniqueKey {
	return []service.UniqueKey{
		{Field: "cpf", Value: p.CPF},
		{Field: "rg", Value: p.RG},
		{Field: "phone", Value: p.Phone},
	}
}

func changedUniqueKeys(existing, candidate *entity.Patient) []service.UniqueKey {
	var keys []service.UniqueKey
	if candidate.CPF != existing.CPF {
		keys = append(keys, service.UniqueKey{Field: "cpf", Value: candidate.CPF})
	}
	if candidate.RG != existing.RG {
		keys = append(keys, service.UniqueKey{Field: "rg", Value: candidate.RG})
	}
	if candidate.Phone != existing.Phone {
		keys = append(keys, service.UniqueKey{Field: "phone", Value: candidate.Phone})
	}
	return keys
}

func reservationToDuplicate(err error) error {
	var reserved *service.KeyReservedError
	if errors.As(err, &reserved) {
		return &entity.DuplicateKeyError{Field: reserved.Key.Field, Value: reserved.Key.Value}
	}
	return err
}

func commitError(op string, err error) error {
	return &entity.StorageError{Op: "commit " + op, Err: err}
}

func actorFrom(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok || userID == uuid.Nil {
		return nil
	}
	return &userID
}
