package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/state"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that reloads the node config
// into store. The delay doubles with each consecutive failure up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, loader *device.Loader, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			refresh(ctx, store, loader, log)

			delay := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff returns base doubled once per failure, capped at maxBackoff.
// A base at or above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func refresh(ctx context.Context, store *state.Store, loader *device.Loader, log zerolog.Logger) {
	cfg, err := loader.Load(ctx)
	if errors.Is(err, device.ErrLoadInFlight) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		log.Warn().Err(err).Int("failures", store.Snapshot().ConsecutiveFailures).Msg("config poll failed")
		return
	}
	store.Update(&cfg, nil)
	log.Debug().Str("firmware", cfg.Firmware()).Msg("config polled")
}
