package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/lightpanel/internal/config"
	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/logging"
	"github.com/five82/lightpanel/internal/prefs"
	"github.com/five82/lightpanel/internal/state"
	"github.com/five82/lightpanel/internal/ui"
)

// Options configure the panel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/lightpanel/prefs.toml
	Device     string // overrides the configured node address
	Verbose    bool
}

// Run boots the settings panel TUI until the context is cancelled or the
// operator quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	address := ResolveDevice(opts.Device, cfg, userPrefs)

	log, closer, err := logging.OpenFile(cfg.LogFile, opts.Verbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := device.NewClient(address, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("init device client: %w", err)
	}
	log = log.With().Str("device", client.BaseURL()).Logger()
	log.Info().Msg("panel starting")

	loader := device.NewLoader(client)
	store := &state.Store{}

	StartPoller(ctx, store, loader, cfg.PollInterval, log)

	if err := prefs.Update(opts.PrefsPath, func(p *prefs.Prefs) { p.LastDevice = address }); err != nil {
		log.Warn().Err(err).Msg("save prefs")
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		API:       client,
		Loader:    loader,
		Store:     store,
		Logger:    log,
		Device:    client.BaseURL(),
		PollTick:  uiTick(cfg),
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
	log.Info().Err(err).Msg("panel stopped")
	return err
}

// ResolveDevice picks the node address: an explicit override wins, then a
// non-default configured address, then the last address used.
func ResolveDevice(override string, cfg config.Config, p prefs.Prefs) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	if cfg.Device != "" && cfg.Device != device.DefaultAddress {
		return cfg.Device
	}
	if p.LastDevice != "" {
		return p.LastDevice
	}
	if cfg.Device != "" {
		return cfg.Device
	}
	return device.DefaultAddress
}

// uiTick is how often the UI reads the store; it never lags the poller by
// more than a second.
func uiTick(cfg config.Config) time.Duration {
	if cfg.PollInterval > 0 && cfg.PollInterval < time.Second {
		return cfg.PollInterval
	}
	return time.Second
}
