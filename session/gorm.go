package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/va6996/routebot/geo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// userSession is the table row behind GormStore
type userSession struct {
	UserID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Latitude        *float64
	Longitude       *float64
	CapturedAt      *time.Time
	PendingQuery    string
	PinnedMessageID int
	History         []Turn `gorm:"serializer:json"`
	UpdatedAt       time.Time
}

func (userSession) TableName() string {
	return "user_sessions"
}

func rowFromRecord(userID int64, rec Record) *userSession {
	row := &userSession{
		UserID:          userID,
		PendingQuery:    rec.PendingQuery,
		PinnedMessageID: rec.PinnedMessageID,
		History:         rec.History,
	}
	if loc := rec.CurrentLocation; loc != nil {
		lat, lng, at := loc.Latitude, loc.Longitude, loc.CapturedAt
		row.Latitude, row.Longitude, row.CapturedAt = &lat, &lng, &at
	}
	return row
}

func (row *userSession) record() Record {
	rec := Record{
		PendingQuery:    row.PendingQuery,
		PinnedMessageID: row.PinnedMessageID,
		History:         row.History,
	}
	if row.Latitude != nil && row.Longitude != nil && row.CapturedAt != nil {
		rec.CurrentLocation = &geo.LocationSample{
			Latitude:   *row.Latitude,
			Longitude:  *row.Longitude,
			CapturedAt: *row.CapturedAt,
		}
	}
	return rec
}

// GormStore keeps records in a SQL table through gorm
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore opens a sqlite database at dsn. The default DSN is an
// in-memory database, so nothing outlives the process.
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps a private
	// in-memory database alive and shared by every caller
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return NewGormStore(db)
}

// NewGormStore migrates the session table on db
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&userSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sessions: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, userID int64) (Record, error) {
	var row userSession
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load session %d: %w", userID, err)
	}
	return row.record(), nil
}

// Put upserts the record; concurrent writers for one user are last-write-wins
func (s *GormStore) Put(ctx context.Context, userID int64, rec Record) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rowFromRecord(userID, rec)).Error
	if err != nil {
		return fmt.Errorf("failed to save session %d: %w", userID, err)
	}
	return nil
}
