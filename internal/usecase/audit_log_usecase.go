package usecase

import (
	"context"

	"patient-registry/internal/converter"
	"patient-registry/internal/delivery/dto"
	"patient-registry/internal/domain/entity"
	"patient-registry/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 500
)

type AuditLogUsecase interface {
	GetLatestAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
	GetPatientHistory(ctx context.Context, patientID uuid.UUID) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetLatestAuditLogs(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	if limit < 1 {
		limit = defaultAuditLogLimit
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	logs, err := u.auditLogRepo.FindLatest(u.db.WithContext(ctx), limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, &entity.StorageError{Op: "find audit logs", Err: err}
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

// GetPatientHistory returns the trail of one patient, oldest first.
// It also works for deleted patients since audit entries outlive the row.
func (u *auditLogUsecase) GetPatientHistory(ctx context.Context, patientID uuid.UUID) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindByEntity(u.db.WithContext(ctx), entity.AuditEntityPatient, patientID.String())
	if err != nil {
		u.log.Warnf("Failed to find patient history: %+v", err)
		return nil, &entity.StorageError{Op: "find patient history", Err: err}
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
