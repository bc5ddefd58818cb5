package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ConnectionInfo describes the live database connection
type ConnectionInfo struct {
	Driver          string `json:"driver"`
	ServerVersion   string `json:"server_version"`
	Database        string `json:"database"`
	User            string `json:"user"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
	Latency         string `json:"latency"`
}

type Diagnostics struct {
	db *gorm.DB
}

func NewDiagnostics(db *gorm.DB) *Diagnostics {
	return &Diagnostics{db: db}
}

// Inspect pings the database and reads its server metadata.
func (d *Diagnostics) Inspect(ctx context.Context) (*ConnectionInfo, error) {
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	start := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	latency := time.Since(start)

	var meta struct {
		Version     string
		Database    string
		CurrentUser string
	}
	err = d.db.WithContext(ctx).
		Raw("SELECT version() AS version, current_database() AS database, current_user AS current_user").
		Scan(&meta).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read database metadata: %w", err)
	}

	stats := sqlDB.Stats()
	return &ConnectionInfo{
		Driver:          d.db.Dialector.Name(),
		ServerVersion:   meta.Version,
		Database:        meta.Database,
		User:            meta.CurrentUser,
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		Latency:         latency.String(),
	}, nil
}
