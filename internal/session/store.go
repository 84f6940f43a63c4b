package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
	"goexplain/internal"
)

// State holds what one browser session has loaded. Dataset snapshots
// are immutable, so sharing the pointer across requests is safe.
type State struct {
	ID         core.SessionID
	Dataset    *dataset.Dataset
	History    dataset.UploadHistory
	LastActive time.Time
}

type datasetEntry struct {
	ds         *dataset.Dataset
	lastAccess time.Time
}

// Store keeps session and dataset state in memory with TTL cleanup
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*State
	datasets map[core.DatasetID]*datasetEntry

	ttl          time.Duration
	historyLimit int
	logger       *internal.Logger

	done chan struct{}
}

// NewStore creates a store and starts the cleanup loop. A non-positive
// sweepInterval disables the loop, which tests rely on.
func NewStore(ttl, sweepInterval time.Duration, historyLimit int) *Store {
	s := &Store{
		sessions:     make(map[core.SessionID]*State),
		datasets:     make(map[core.DatasetID]*datasetEntry),
		ttl:          ttl,
		historyLimit: historyLimit,
		logger:       internal.NewDefaultLogger(),
		done:         make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

// Close stops the cleanup loop
func (s *Store) Close() {
	close(s.done)
}

func (s *Store) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.CleanupExpired(s.ttl); removed > 0 {
				s.logger.Info("Session sweep removed %d expired entries", removed)
			}
			s.logger.Debug("Session store holds %d sessions, %d datasets", s.SessionCount(), s.DatasetCount())
		case <-s.done:
			return
		}
	}
}

// EnsureSession resolves a session ID to a live session, creating one
// when the ID is empty or no longer known. Touches LastActive.
func (s *Store) EnsureSession(id core.SessionID) core.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if state, ok := s.sessions[id]; ok {
			state.LastActive = time.Now()
			return id
		}
	}

	fresh := core.SessionID(core.NewID())
	s.sessions[fresh] = &State{
		ID:         fresh,
		History:    dataset.NewUploadHistory(s.historyLimit),
		LastActive: time.Now(),
	}
	return fresh
}

// SetDataset attaches an uploaded dataset to a session, records it in
// the upload history and makes it addressable by ID
func (s *Store) SetDataset(id core.SessionID, ds *dataset.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	state.Dataset = ds
	state.History = state.History.Record(dataset.NewUploadEntry(ds))
	state.LastActive = time.Now()

	s.datasets[ds.ID] = &datasetEntry{ds: ds, lastAccess: time.Now()}
	return nil
}

// CurrentDataset returns the session's loaded dataset
func (s *Store) CurrentDataset(id core.SessionID) (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	if state.Dataset == nil {
		return nil, fmt.Errorf("%w: session has no dataset loaded", core.ErrDatasetNotFound)
	}
	return state.Dataset, nil
}

// History returns the session's upload history
func (s *Store) History(id core.SessionID) (dataset.UploadHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return dataset.UploadHistory{}, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return state.History, nil
}

// PutDataset registers a dataset without a session, for API uploads
func (s *Store) PutDataset(ctx context.Context, ds *dataset.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets[ds.ID] = &datasetEntry{ds: ds, lastAccess: time.Now()}
	return nil
}

// Dataset resolves a dataset by ID and refreshes its expiry
func (s *Store) Dataset(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatasetNotFound, id)
	}
	entry.lastAccess = time.Now()
	return entry.ds, nil
}

// CleanupExpired drops sessions and datasets idle longer than maxAge
// and returns how many entries were removed
func (s *Store) CleanupExpired(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, state := range s.sessions {
		if state.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	for id, entry := range s.datasets {
		if entry.lastAccess.Before(cutoff) {
			delete(s.datasets, id)
			removed++
		}
	}
	return removed
}

// SessionCount reports how many sessions are live
func (s *Store) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// DatasetCount reports how many datasets are addressable
func (s *Store) DatasetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
