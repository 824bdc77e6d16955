package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/gridbots/game/service"
)

// FileProgressStore keeps the completed-level records in a single JSON
// file. One record per level; a rerun only replaces it when it improves on
// the tick count.
type FileProgressStore struct {
	path    string
	mu      sync.Mutex
	records map[string]*service.LevelProgress
}

// NewFileProgressStore loads (or creates) the progress file.
func NewFileProgressStore(path string) (*FileProgressStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create progress directory: %w", err)
	}

	store := &FileProgressStore{
		path:    path,
		records: make(map[string]*service.LevelProgress),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var records []*service.LevelProgress
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	for _, r := range records {
		store.records[r.LevelID] = r
	}

	return store, nil
}

// RecordWin stores a completed level, keeping the best tick count.
func (s *FileProgressStore) RecordWin(levelID string, ticks int, programSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[levelID]
	if ok && existing.BestTicks <= ticks {
		return nil
	}

	s.records[levelID] = &service.LevelProgress{
		LevelID:     levelID,
		CompletedAt: time.Now(),
		BestTicks:   ticks,
		ProgramSize: programSize,
	}

	return s.flush()
}

// List returns all records sorted by level ID.
func (s *FileProgressStore) List() ([]*service.LevelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*service.LevelProgress, 0, len(s.records))
	for _, r := range s.records {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LevelID < result[j].LevelID
	})
	return result, nil
}

// flush writes the records to disk. Caller holds the lock.
func (s *FileProgressStore) flush() error {
	records := make([]*service.LevelProgress, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].LevelID < records[j].LevelID
	})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	return nil
}
