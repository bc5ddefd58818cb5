package repository

import (
	"patient-registry/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindLatest(db *gorm.DB, limit int) ([]entity.AuditLog, error)
	FindByEntity(db *gorm.DB, entityName, entityID string) ([]entity.AuditLog, error)
}
