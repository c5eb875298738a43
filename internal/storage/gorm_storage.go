package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(driver, dsn string) (*GormStorage, error) {
	var gormDialector gorm.Dialector
	switch driver {
	case "postgres":
		if dsn == "" {
			dsn = "postgres://localhost:5432/quotemanager?sslmode=disable"
		}
		gormDialector = postgres.Open(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = "quotemanager.db"
		}
		gormDialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := gorm.Open(gormDialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&CatalogRecord{},
		&Submission{},
		&Setting{},
		&ScheduledJob{},
		&EmailConfig{},
	)
}

// Catalogs

func (s *GormStorage) ListCatalogs(ctx context.Context) ([]CatalogRecord, error) {
	var recs []CatalogRecord
	result := s.db.WithContext(ctx).Order("key").Find(&recs)
	return recs, result.Error
}

func (s *GormStorage) GetCatalog(ctx context.Context, key string) (*CatalogRecord, error) {
	var rec CatalogRecord
	result := s.db.WithContext(ctx).First(&rec, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &rec, nil
}

func (s *GormStorage) UpsertCatalog(ctx context.Context, rec CatalogRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&rec).Error
}

// Submissions

func (s *GormStorage) SaveSubmission(ctx context.Context, sub Submission) error {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(&sub).Error
}

func (s *GormStorage) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	var sub Submission
	result := s.db.WithContext(ctx).First(&sub, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &sub, nil
}

func (s *GormStorage) ListSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	var subs []Submission
	q := s.db.WithContext(ctx).Order("submitted_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	result := q.Find(&subs)
	return subs, result.Error
}

// Settings

func (s *GormStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var setting Setting
	result := s.db.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return setting.Value, nil
}

func (s *GormStorage) SetSetting(ctx context.Context, key, value string) error {
	setting := Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&setting).Error
}

// Email Config

func (s *GormStorage) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var config EmailConfig
	result := s.db.WithContext(ctx).First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &config, nil
}

func (s *GormStorage) SaveEmailConfig(ctx context.Context, config EmailConfig) error {
	if config.ID == "" {
		config.ID = "default" // single row
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&config).Error
}

// Close & Ping

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Scheduled Jobs

func (s *GormStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	status := 0
	if success {
		status = 1
	}
	job := ScheduledJob{
		Name:           name,
		LastRunAt:      started,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    status,
		LastError:      errMsg,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&job).Error
}
