// Package storage persists audit reports and journals cleanup
// decisions. bbolt holds the data; an in-memory btree index keeps run
// lookups fast without scanning the database.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/btree"
	"go.etcd.io/bbolt"

	"github.com/cloudsweep/cloudsweep/types"
)

// Bucket names in bbolt
var (
	bucketReports   = []byte("reports")
	bucketDecisions = []byte("decisions")
)

// RunInfo indexes one stored audit run.
type RunInfo struct {
	RunID     string
	Timestamp time.Time
}

func runKey(info RunInfo) string {
	return info.Timestamp.UTC().Format(time.RFC3339Nano) + "|" + info.RunID
}

// Store is the on-disk run history.
type Store struct {
	mu sync.RWMutex

	// In-memory index of stored runs, ordered by timestamp.
	index *btree.BTreeG[RunInfo]

	db  *bbolt.DB
	dir string
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "cloudsweep.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{bucketReports, bucketDecisions} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{
		index: btree.NewG[RunInfo](32, func(a, b RunInfo) bool {
			return runKey(a) < runKey(b)
		}),
		db:  db,
		dir: dir,
	}

	if err := store.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebuildIndex loads run metadata from disk into the btree.
func (s *Store) rebuildIndex() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketReports).ForEach(func(k, v []byte) error {
			var report types.AuditReport
			if err := json.Unmarshal(v, &report); err != nil {
				return fmt.Errorf("corrupt report %s: %w", k, err)
			}
			s.index.ReplaceOrInsert(RunInfo{RunID: report.RunID, Timestamp: report.Timestamp})
			return nil
		})
	})
}

// SaveReport persists one audit report.
func (s *Store) SaveReport(report *types.AuditReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := RunInfo{RunID: report.RunID, Timestamp: report.Timestamp}
	value, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketReports).Put([]byte(runKey(info)), value)
	})
	if err != nil {
		return err
	}

	s.index.ReplaceOrInsert(info)
	return nil
}

// LatestReport returns the most recent stored report, or nil when the
// store is empty.
func (s *Store) LatestReport() (*types.AuditReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest, ok := s.index.Max()
	if !ok {
		return nil, nil
	}

	var report types.AuditReport
	err := s.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(bucketReports).Get([]byte(runKey(latest)))
		if value == nil {
			return fmt.Errorf("indexed run %s missing from disk", latest.RunID)
		}
		return json.Unmarshal(value, &report)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(limit int) []RunInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []RunInfo
	s.index.Descend(func(info RunInfo) bool {
		runs = append(runs, info)
		return limit <= 0 || len(runs) < limit
	})
	return runs
}

// AppendDecision journals one cleanup decision under its run. Every
// decision is written before the summary is final, so the journal is
// the audit trail for mutating actions.
func (s *Store) AppendDecision(runID string, decision types.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketDecisions)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%s|%020d", runID, seq)
		return bucket.Put([]byte(key), value)
	})
}

// DecisionsForRun returns the journaled decisions of one run in
// append order.
func (s *Store) DecisionsForRun(runID string) ([]types.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := []byte(runID + "|")
	var decisions []types.Decision

	err := s.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketDecisions).Cursor()
		for k, v := cursor.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = cursor.Next() {
			var d types.Decision
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("corrupt decision %s: %w", k, err)
			}
			decisions = append(decisions, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
