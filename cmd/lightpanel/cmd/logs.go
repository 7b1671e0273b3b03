package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/lightpanel/internal/config"
	"github.com/five82/lightpanel/internal/logtail"
)

func newLogsCmd(g *globalFlags) *cobra.Command {
	var lines int
	var raw bool

	c := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the panel's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			if !raw {
				tail = logtail.FormatLines(tail)
			}
			out := cmd.OutOrStdout()
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	c.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines, 0 for all")
	c.Flags().BoolVar(&raw, "raw", false, "print JSON entries unformatted")
	return c
}
