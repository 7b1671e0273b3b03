package cmd

import (
	"github.com/spf13/cobra"

	"github.com/five82/lightpanel/internal/emulator"
	"github.com/five82/lightpanel/internal/logging"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr    string
		dataDir string
		chipID  uint32
	)

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run a light node emulator",
		Long: `Serve the node's settings API (/, /config, /setting, /restart) backed by
config.json in --data-dir, so the panel can be used without hardware.
/panel serves the settings page already loaded with the stored config.`,
		Example: `  lightpanel serve --addr :8080 --data-dir ./node
  lightpanel --device localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(cmd.ErrOrStderr(), g.verbose)
			srv, err := emulator.New(emulator.Options{
				DataDir: dataDir,
				ChipID:  chipID,
				Logger:  log,
			})
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	c.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	c.Flags().StringVar(&dataDir, "data-dir", "lightnode-data", "directory holding config.json and static files")
	c.Flags().Uint32Var(&chipID, "chip-id", 0, "chip id used in the default device name (random when 0)")
	return c
}
