package coordcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
	"gorm.io/gorm"
)

// SQLStore implements Store on a SQL database via GORM.
type SQLStore struct {
	db *gorm.DB
}

// entryRecord is the table representation of an Entry. Coordinates are kept
// as a JSON column since no query ever filters on their fields.
type entryRecord struct {
	Key         string `gorm:"primaryKey"`
	ChartID     string `gorm:"index"`
	ContainerID string
	Coordinates string
	Timestamp   time.Time
	ExpiresAt   time.Time
}

func (entryRecord) TableName() string {
	return "pane_coordinates"
}

// FromSQL creates a new SQL store instance.
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLStore, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&entryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Get implements Store.
func (s *SQLStore) Get(key string) (*Entry, error) {
	var record entryRecord

	result := s.db.First(&record, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read entry: %w", result.Error)
	}

	return record.toEntry()
}

// Set implements Store, replacing any prior entry for the key.
func (s *SQLStore) Set(entry *Entry) error {
	record, err := toRecord(entry)
	if err != nil {
		return err
	}

	result := s.db.Save(record)
	if result.Error != nil {
		return fmt.Errorf("failed to store entry: %w", result.Error)
	}

	return nil
}

// Delete implements Store.
func (s *SQLStore) Delete(key string) error {
	result := s.db.Delete(&entryRecord{}, "key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	return nil
}

// All implements Store.
func (s *SQLStore) All() ([]*Entry, error) {
	var records []entryRecord

	result := s.db.Find(&records)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch entries: %w", result.Error)
	}

	entries := make([]*Entry, 0, len(records))
	for _, record := range records {
		entry, err := record.toEntry()
		if err != nil {
			continue // skip unreadable entries
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(entry *Entry) (*entryRecord, error) {
	content, err := json.Marshal(entry.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal coordinates: %w", err)
	}

	return &entryRecord{
		Key:         entry.Key,
		ChartID:     entry.ChartID,
		ContainerID: entry.ContainerID,
		Coordinates: string(content),
		Timestamp:   entry.Timestamp,
		ExpiresAt:   entry.ExpiresAt,
	}, nil
}

func (r entryRecord) toEntry() (*Entry, error) {
	var coordinates coords.PaneCoordinates
	if err := json.Unmarshal([]byte(r.Coordinates), &coordinates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}

	return &Entry{
		Key:         r.Key,
		ChartID:     r.ChartID,
		ContainerID: r.ContainerID,
		Coordinates: coordinates,
		Timestamp:   r.Timestamp,
		ExpiresAt:   r.ExpiresAt,
	}, nil
}
