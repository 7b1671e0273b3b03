package device

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrLoadInFlight is returned by Loader.Load when an earlier load has not
// finished yet. No request is issued in that case.
var ErrLoadInFlight = errors.New("config load already in progress")

// ConfigFetcher retrieves a node's configuration document.
type ConfigFetcher interface {
	FetchConfig(ctx context.Context) (ConfigResponse, error)
}

// Loader serializes configuration loads: at most one request is outstanding.
type Loader struct {
	fetcher ConfigFetcher
	busy    atomic.Bool
}

// NewLoader returns a Loader reading through fetcher.
func NewLoader(fetcher ConfigFetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// Load fetches the configuration unless another load is in flight.
func (l *Loader) Load(ctx context.Context) (ConfigResponse, error) {
	if !l.busy.CompareAndSwap(false, true) {
		return ConfigResponse{}, ErrLoadInFlight
	}
	defer l.busy.Store(false)
	return l.fetcher.FetchConfig(ctx)
}

// InFlight reports whether a load is currently running.
func (l *Loader) InFlight() bool {
	return l.busy.Load()
}
