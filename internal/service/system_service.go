package service

import (
	"database/sql"
	"strconv"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/database"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
)

// AppVersion is the application version reported by the version endpoint.
const AppVersion = "0.1.0"

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns application and schema version information.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	return model.VersionInfo{
		AppVersion: AppVersion,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
	}, nil
}
