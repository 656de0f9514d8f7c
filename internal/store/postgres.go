package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgresStore writes records to a Postgres table through gorm. The table
// is created on open if missing; existing tables gain any missing columns.
type PostgresStore struct {
	db    *gorm.DB
	table string
}

// NewPostgresStore connects to the database at dsn
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{db: db, table: table}

	if err := s.ping(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if err := db.WithContext(ctx).Table(table).AutoMigrate(&Record{}); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate table %s: %w", table, err)
	}

	return s, nil
}

func (s *PostgresStore) ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}
	return nil
}

// Insert appends one row
func (s *PostgresStore) Insert(ctx context.Context, record *Record) error {
	if err := s.db.WithContext(ctx).Table(s.table).Create(record).Error; err != nil {
		return fmt.Errorf("postgres insert: %w", err)
	}
	return nil
}

// List returns the newest rows
func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	var records []Record
	err := s.db.WithContext(ctx).
		Table(s.table).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Limit(listLimit(limit)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("postgres list: %w", err)
	}
	return records, nil
}

// Exists checks for a row with the given original filename
func (s *PostgresStore) Exists(ctx context.Context, filename string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("original_filename = ?", filename).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("postgres lookup: %w", err)
	}
	return count > 0, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
