package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/lightpanel/internal/device"
)

// Snapshot represents the latest node data available to the UI.
type Snapshot struct {
	Config              device.ConfigResponse
	HasConfig           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive load failures
}

// IsOffline returns true when the node has been unreachable for multiple loads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Firmware returns the firmware version of the last loaded config.
func (s Snapshot) Firmware() string {
	if !s.HasConfig {
		return ""
	}
	return s.Config.Firmware()
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored configuration. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(cfg *device.ConfigResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if cfg != nil {
		s.snapshot.Config = device.NewConfigResponse(cfg.Fields()...)
		s.snapshot.HasConfig = true
	} else {
		s.snapshot.Config = device.ConfigResponse{}
		s.snapshot.HasConfig = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Config = device.NewConfigResponse(s.snapshot.Config.Fields()...)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
