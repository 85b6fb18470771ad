package report

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const reportsBucket = "reports"

// DB defines the interface for report persistence
type DB interface {
	// SaveReport inserts or replaces a report
	SaveReport(report *Record) error

	// GetReport retrieves a report by ID, or returns ErrNotFound
	GetReport(id string) (*Record, error)

	// ListReports returns all reports
	ListReports() ([]*Record, error)

	// DeleteReport removes a report
	DeleteReport(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements DB using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens (or creates) the database at path
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveReport stores a report under its ID
func (b *BoltDB) SaveReport(report *Record) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Put([]byte(report.ID), data)
	})
}

// GetReport retrieves a report by ID
func (b *BoltDB) GetReport(id string) (*Record, error) {
	var report *Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(reportsBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns all reports in key order
func (b *BoltDB) ListReports() ([]*Record, error) {
	reports := make([]*Record, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).ForEach(func(k, v []byte) error {
			var report Record
			if err := json.Unmarshal(v, &report); err != nil {
				return fmt.Errorf("unmarshaling report %s: %w", k, err)
			}
			reports = append(reports, &report)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// DeleteReport removes a report. Deleting a missing report is not an error.
func (b *BoltDB) DeleteReport(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Delete([]byte(id))
	})
}

// Close closes the database
func (b *BoltDB) Close() error {
	return b.db.Close()
}
