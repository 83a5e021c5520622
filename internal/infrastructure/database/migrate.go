package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// Models lists every table in creation order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Property{},
		&models.Tenant{},
		&models.Lease{},
		&models.LeaseDocument{},
		&models.Payment{},
		&models.Reminder{},
	}
}

// Migration modes accepted by DB_MIGRATION_MODE
const (
	MigrationModeAuto = "auto"
	MigrationModeDrop = "drop"
)

// Migrate brings the schema up to date. "auto" only adds tables and columns;
// "drop" drops every table first.
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case MigrationModeDrop:
		logger.Warning("running in drop mode, all tables will be dropped and recreated")
		return DropAndRecreateTables(db)
	case MigrationModeAuto, "":
		logger.Info("running auto migration, only new tables and columns are added")
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unknown migration mode %q", mode)
	}
}

// AutoMigrate creates missing tables and columns
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	logger.Info("database migration completed")
	return nil
}

// DropAndRecreateTables drops every table in reverse order, then migrates
func DropAndRecreateTables(db *gorm.DB) error {
	tables := Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return AutoMigrate(db)
}
