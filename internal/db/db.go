package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandyspetshop/petshop-scheduler/internal/config"
	"github.com/sandyspetshop/petshop-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Env == "production" {
		level = logger.Silent
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.Int("max_open_conns", 10))
	return db, nil
}

// Migrate creates both appointment collections from the same model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Appointment{},
		&models.MonthlyClient{},
		&models.Client{},
		&models.DisabledDate{},
		&models.DaycareEnrollment{},
		&models.HotelRegistration{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Table(models.MobileAppointmentsTable).AutoMigrate(&models.Appointment{}); err != nil {
		return fmt.Errorf("migrate %s: %w", models.MobileAppointmentsTable, err)
	}
	return nil
}
