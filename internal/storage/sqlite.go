package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DefaultRetention is how long speed samples are kept
const DefaultRetention = 7 * 24 * time.Hour

// TimeRange represents different time window options
type TimeRange int

const (
	Range30Min TimeRange = iota
	Range1Hour
	Range6Hour
	Range1Day
	Range1Week
)

func (t TimeRange) String() string {
	switch t {
	case Range30Min:
		return "30min"
	case Range1Hour:
		return "1hour"
	case Range6Hour:
		return "6hours"
	case Range1Day:
		return "1day"
	case Range1Week:
		return "1week"
	default:
		return "unknown"
	}
}

// Duration returns the time duration for the range
func (t TimeRange) Duration() time.Duration {
	switch t {
	case Range30Min:
		return 30 * time.Minute
	case Range1Hour:
		return 1 * time.Hour
	case Range6Hour:
		return 6 * time.Hour
	case Range1Day:
		return 24 * time.Hour
	case Range1Week:
		return 7 * 24 * time.Hour
	default:
		return 30 * time.Minute
	}
}

// Next cycles to the following range
func (t TimeRange) Next() TimeRange {
	return (t + 1) % (Range1Week + 1)
}

// bucketSeconds is the aggregation window; 0 means full resolution
func (t TimeRange) bucketSeconds() int64 {
	switch t {
	case Range1Hour:
		return 30
	case Range6Hour:
		return 300
	case Range1Day:
		return 600
	case Range1Week:
		return 3600
	default:
		return 0
	}
}

// DataPoint represents a single throughput point in time
type DataPoint struct {
	Timestamp time.Time
	Download  float64 // bytes/sec
	Upload    float64 // bytes/sec
}

// SpeedEntry represents a rate sample to be written
type SpeedEntry struct {
	Timestamp time.Time
	Download  uint64
	Upload    uint64
}

// Options configures the storage
type Options struct {
	Dir       string
	Retention time.Duration
}

// Storage handles persistent speed history and settings
type Storage struct {
	db        *sql.DB
	sessionID string
	retention time.Duration
	writeChan chan *SpeedEntry
	closeChan chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// DefaultDir returns ~/.netspeed
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".netspeed"), nil
}

// NewStorage creates a new storage instance
func NewStorage(opts Options) (*Storage, error) {
	dataDir := opts.Dir
	if dataDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open database
	dbPath := filepath.Join(dataDir, "netspeed.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time keeps sqlite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	storage := &Storage{
		db:        db,
		sessionID: uuid.New().String(),
		retention: retention,
		writeChan: make(chan *SpeedEntry, 1000),
		closeChan: make(chan struct{}),
	}

	// Start background writer and cleanup routine
	storage.wg.Add(2)
	go storage.writer()
	go storage.cleanup()

	log.Info().
		Str("path", dbPath).
		Str("session", storage.sessionID).
		Msg("storage opened")

	return storage, nil
}

// createTables creates the database schema
func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS speed_samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		download INTEGER,
		upload INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_speed_time
	ON speed_samples(timestamp);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}

// SessionID identifies the samples written by this run
func (s *Storage) SessionID() string {
	return s.sessionID
}

// Write queues a speed entry for writing
func (s *Storage) Write(entry *SpeedEntry) {
	select {
	case s.writeChan <- entry:
	default:
		// Channel full, drop to avoid blocking the sampler
		log.Debug().Msg("speed sample dropped: write queue full")
	}
}

// writer runs in background and batch writes to database
func (s *Storage) writer() {
	defer s.wg.Done()

	buffer := make([]*SpeedEntry, 0, 100)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case entry := <-s.writeChan:
			buffer = append(buffer, entry)

			if len(buffer) >= 50 {
				s.batchWrite(buffer)
				buffer = buffer[:0]
			}

		case <-ticker.C:
			if len(buffer) > 0 {
				s.batchWrite(buffer)
				buffer = buffer[:0]
			}

		case <-s.closeChan:
			// Final flush on close, including whatever is still queued
			buffer = append(buffer, s.drainQueue()...)
			if len(buffer) > 0 {
				s.batchWrite(buffer)
			}
			return
		}
	}
}

func (s *Storage) drainQueue() []*SpeedEntry {
	var pending []*SpeedEntry
	for {
		select {
		case entry := <-s.writeChan:
			pending = append(pending, entry)
		default:
			return pending
		}
	}
}

// batchWrite writes a batch of entries to the database
func (s *Storage) batchWrite(entries []*SpeedEntry) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Error().Err(err).Msg("begin batch write")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO speed_samples
		(session_id, timestamp, download, upload)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		log.Error().Err(err).Msg("prepare batch write")
		return
	}
	defer stmt.Close()

	for _, entry := range entries {
		_, err := stmt.Exec(
			s.sessionID,
			entry.Timestamp.Unix(),
			int64(entry.Download),
			int64(entry.Upload),
		)
		if err != nil {
			log.Warn().Err(err).Msg("insert speed sample")
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Int("count", len(entries)).Msg("commit batch write")
	}
}

// Query retrieves throughput points for a time range
func (s *Storage) Query(timeRange TimeRange) ([]DataPoint, error) {
	cutoff := time.Now().Add(-timeRange.Duration()).Unix()
	bucketSize := timeRange.bucketSeconds()

	if bucketSize == 0 {
		// Full resolution (no aggregation)
		rows, err := s.db.Query(`
			SELECT timestamp, download, upload
			FROM speed_samples
			WHERE timestamp > ?
			ORDER BY timestamp ASC
		`, cutoff)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		return scanRows(rows)
	}

	rows, err := s.db.Query(`
		SELECT
			(timestamp / ?) * ? as bucket,
			AVG(download) as avg_down,
			AVG(upload) as avg_up
		FROM speed_samples
		WHERE timestamp > ?
		GROUP BY bucket
		ORDER BY bucket ASC
	`, bucketSize, bucketSize, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows scans database rows into DataPoints
func scanRows(rows *sql.Rows) ([]DataPoint, error) {
	var points []DataPoint

	for rows.Next() {
		var timestamp int64
		var down, up float64

		if err := rows.Scan(&timestamp, &down, &up); err != nil {
			continue
		}

		points = append(points, DataPoint{
			Timestamp: time.Unix(timestamp, 0),
			Download:  down,
			Upload:    up,
		})
	}

	return points, rows.Err()
}

// cleanup removes old data periodically
func (s *Storage) cleanup() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-s.retention).Unix()
			s.batchDelete(cutoff)

		case <-s.closeChan:
			return
		}
	}
}

// batchDelete removes old records in batches to prevent long-running locks
func (s *Storage) batchDelete(cutoffTimestamp int64) int64 {
	const batchSize = 1000
	var total int64
	for {
		result, err := s.db.Exec(`
			DELETE FROM speed_samples WHERE id IN (
				SELECT id FROM speed_samples WHERE timestamp < ? LIMIT ?
			)`,
			cutoffTimestamp,
			batchSize,
		)
		if err != nil {
			log.Warn().Err(err).Msg("retention cleanup")
			return total
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil || rowsAffected == 0 {
			return total
		}
		total += rowsAffected

		select {
		case <-s.closeChan:
			return total
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Close flushes pending writes and closes the database
func (s *Storage) Close() error {
	s.closeOnce.Do(func() { close(s.closeChan) })
	s.wg.Wait()
	return s.db.Close()
}
