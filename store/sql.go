package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/goldesk"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// row is a persisted record. The record itself is kept as its JSON line,
// command and time are copied in columns for ad-hoc queries.
type row struct {
	Seq     uint      `gorm:"primaryKey;autoIncrement"`
	Command string    `gorm:"size:16;not null"`
	Time    time.Time `gorm:"index;not null"`
	Data    string    `gorm:"type:text;not null"`
}

// SQL stores the desk logs in one table per log.
type SQL struct {
	db *gorm.DB
}

// Open connects to a sqlite or postgres database and migrates its tables.
func Open(driver, dsn string) (*SQL, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s database: %w", driver, err)
	}
	return NewSQL(db)
}

// NewSQL returns a store over db, creating the tables if needed.
func NewSQL(db *gorm.DB) (*SQL, error) {
	for _, table := range goldesk.Tables {
		if err := db.Table(table).AutoMigrate(&row{}); err != nil {
			return nil, fmt.Errorf("cannot migrate table %q: %w", table, err)
		}
	}
	return &SQL{db: db}, nil
}

// Load reads every table in insertion order.
func (s *SQL) Load(ctx context.Context) ([]goldesk.Record, error) {
	var recs []goldesk.Record
	for _, table := range goldesk.Tables {
		var rows []row
		if err := s.db.WithContext(ctx).Table(table).Order("seq").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("cannot read table %q: %w", table, err)
		}
		for _, r := range rows {
			rec, err := goldesk.DecodeRecord([]byte(r.Data))
			if err != nil {
				return nil, fmt.Errorf("format error in %q row %d: %w", table, r.Seq, err)
			}
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// Append inserts the batch in a single database transaction.
func (s *SQL) Append(ctx context.Context, recs ...goldesk.Record) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal %s record: %w", rec.What(), err)
			}
			r := row{Command: string(rec.What()), Time: rec.When(), Data: string(data)}
			if err := tx.Table(goldesk.Table(rec)).Create(&r).Error; err != nil {
				return fmt.Errorf("cannot insert %s record: %w", rec.What(), err)
			}
		}
		return nil
	})
}

// Close closes the database connection.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
