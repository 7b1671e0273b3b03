// Package cmd holds the lightpanel command tree.
package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/five82/lightpanel/internal/app"
	"github.com/five82/lightpanel/internal/config"
	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/logging"
	"github.com/five82/lightpanel/internal/prefs"
)

var version = "0.1.0"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	prefsPath  string
	device     string
	verbose    bool
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "lightpanel",
		Short: "Settings panel for ESP-NOW light nodes",
		Long: `lightpanel configures an ESP-NOW LED light node over its HTTP settings API.

Without a subcommand it opens the interactive panel. The node address comes
from --device, the config file, the last address used, or 192.168.4.1.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g)
		},
	}
	root.SetVersionTemplate("lightpanel version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "config file (default ~/.config/lightpanel/config.toml)")
	flags.StringVar(&g.prefsPath, "prefs", "", "preferences file (default ~/.config/lightpanel/prefs.toml)")
	flags.StringVarP(&g.device, "device", "d", "", "node address, host[:port] or URL")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newTUICmd(g),
		newConfigCmd(g),
		newRenderCmd(g),
		newSaveCmd(g),
		newRestartCmd(g),
		newServeCmd(g),
		newLogsCmd(g),
		newVersionCmd(),
	)
	return root
}

func newTUICmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive settings panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g)
		},
	}
}

func runTUI(cmd *cobra.Command, g *globalFlags) error {
	return app.Run(cmd.Context(), app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		Device:     g.device,
		Verbose:    g.verbose,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lightpanel version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lightpanel version %s\n", version)
		},
	}
}

// env is what one-shot commands need to reach a node.
type env struct {
	cfg    config.Config
	client *device.Client
	log    zerolog.Logger
}

func loadEnv(cmd *cobra.Command, g *globalFlags) (*env, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	address := app.ResolveDevice(g.device, cfg, prefs.Load(g.prefsPath))
	client, err := device.NewClient(address, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init device client: %w", err)
	}
	log := logging.New(cmd.ErrOrStderr(), g.verbose).
		With().Str("device", client.BaseURL()).Logger()
	return &env{cfg: cfg, client: client, log: log}, nil
}
