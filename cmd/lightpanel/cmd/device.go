package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/led"
	"github.com/five82/lightpanel/internal/panel"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the node configuration",
		Long:  "Fetch /config and print each field as key = value in document order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}
			resp, err := device.NewLoader(e.client).Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, f := range resp.Fields() {
				fmt.Fprintf(out, "%s = %s\n", f.Key, f.Value)
			}
			return nil
		},
	}
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var templatePath string
	var strict bool
	var s device.Settings

	c := &cobra.Command{
		Use:   "render",
		Short: "Print the settings page loaded with the node configuration",
		Long: `Fetch the page markup and /config, substitute every {{key}} placeholder,
populate the version text and the select controls, and print the result.

The markup comes from --template, the config's template setting, or the
node's own page at /. Setting flags are written into the form controls, so
the output previews pending edits and can be submitted with save --from-page.`,
		Example: `  lightpanel render --device-name "Porch light" > page.htm
  lightpanel save --from-page page.htm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			markup, err := pageMarkup(cmd, e, templatePath)
			if err != nil {
				return err
			}
			resp, err := device.NewLoader(e.client).Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			doc, err := panel.Load(markup, resp)
			if err != nil {
				return err
			}
			if settingsChanged(cmd.Flags().Changed) {
				current, err := panel.ReadSettings(doc)
				if err != nil {
					return err
				}
				pending := mergeSettings(current, s, cmd.Flags().Changed)
				if err := panel.ApplySettings(doc, pending); err != nil {
					return err
				}
			}
			page, err := doc.Render()
			if err != nil {
				return err
			}
			if keys := panel.Unresolved(page); len(keys) > 0 {
				if strict {
					return fmt.Errorf("unresolved placeholders: %s", strings.Join(keys, ", "))
				}
				e.log.Warn().Strs("keys", keys).Msg("unresolved placeholders")
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), page)
			return err
		},
	}
	c.Flags().StringVarP(&templatePath, "template", "t", "", "local page markup instead of the node's page")
	c.Flags().BoolVar(&strict, "strict", false, "fail when placeholders remain unresolved")
	addSettingFlags(c, &s)
	return c
}

func pageMarkup(cmd *cobra.Command, e *env, flagPath string) (string, error) {
	path := flagPath
	if path == "" {
		path = e.cfg.Template
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read template: %w", err)
		}
		return string(data), nil
	}
	markup, err := e.client.FetchPage(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	return markup, nil
}

func newSaveCmd(g *globalFlags) *cobra.Command {
	var s device.Settings
	var fromPage string

	c := &cobra.Command{
		Use:   "save",
		Short: "Submit settings to the node",
		Long: `Start from the node's current configuration, apply the given flags and
submit the result to /setting. Values are sent as given; the node applies
them after a restart.

With --from-page the starting point is the form state of a saved settings
page, such as the output of render, instead of the node's configuration.`,
		Example: `  lightpanel save --device-name "Porch light" --led-type RGB --red-pin 12
  lightpanel save --from-page page.htm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			current, err := startingSettings(ctx, e, fromPage)
			if err != nil {
				return err
			}
			settings := mergeSettings(current, s, cmd.Flags().Changed)

			e.log.Debug().Str("query", settings.Query()).Msg("submitting settings")
			saveErr := e.client.SaveSettings(ctx, settings)
			fmt.Fprintln(cmd.OutOrStdout(), device.RestartNotice)
			if saveErr != nil {
				return fmt.Errorf("save settings: %w", saveErr)
			}
			return nil
		},
	}

	c.Flags().StringVar(&fromPage, "from-page", "", "submit the form state of a saved settings page")
	addSettingFlags(c, &s)
	return c
}

// startingSettings returns the settings the flags are applied to: the form
// state of page when given, otherwise the node's configuration.
func startingSettings(ctx context.Context, e *env, page string) (device.Settings, error) {
	if page != "" {
		return pageSettings(e, page)
	}
	resp, err := device.NewLoader(e.client).Load(ctx)
	if err != nil {
		return device.Settings{}, fmt.Errorf("load config: %w", err)
	}
	return device.SettingsFromConfig(resp), nil
}

// pageSettings reads the form controls of the page at path.
func pageSettings(e *env, path string) (device.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return device.Settings{}, fmt.Errorf("read page: %w", err)
	}
	doc, err := panel.Parse(string(data))
	if err != nil {
		return device.Settings{}, err
	}
	if doc.Has(panel.IDVersion) {
		if v, err := doc.Text(panel.IDVersion); err == nil && v != "" {
			e.log.Debug().Str("firmware", v).Str("page", path).Msg("page rendered for firmware")
		}
	}
	return panel.ReadSettings(doc)
}

// settingFlags lists the flags added by addSettingFlags.
var settingFlags = []string{
	"device-name", "net-name", "led-type",
	"cold-white-pin", "warm-white-pin", "red-pin", "green-pin", "blue-pin",
}

func addSettingFlags(c *cobra.Command, s *device.Settings) {
	f := c.Flags()
	f.StringVar(&s.DeviceName, "device-name", "", "device name")
	f.StringVar(&s.NetName, "net-name", "", "ESP-NOW network name")
	f.StringVar(&s.LEDType, "led-type", "", "LED type: NONE, W, WW, RGB, RGBW, RGBWW or its number")
	f.StringVar(&s.ColdWhitePin, "cold-white-pin", "", "cold white GPIO")
	f.StringVar(&s.WarmWhitePin, "warm-white-pin", "", "warm white GPIO")
	f.StringVar(&s.RedPin, "red-pin", "", "red GPIO")
	f.StringVar(&s.GreenPin, "green-pin", "", "green GPIO")
	f.StringVar(&s.BluePin, "blue-pin", "", "blue GPIO")
}

func settingsChanged(changed func(string) bool) bool {
	for _, name := range settingFlags {
		if changed(name) {
			return true
		}
	}
	return false
}

// mergeSettings overlays the flags the operator set onto the current
// settings. LED type names are translated to their numeric form; anything
// else passes through unchanged.
func mergeSettings(current, flags device.Settings, changed func(string) bool) device.Settings {
	out := current
	overlay := []struct {
		flag string
		src  string
		dst  *string
	}{
		{"device-name", flags.DeviceName, &out.DeviceName},
		{"net-name", flags.NetName, &out.NetName},
		{"led-type", flags.LEDType, &out.LEDType},
		{"cold-white-pin", flags.ColdWhitePin, &out.ColdWhitePin},
		{"warm-white-pin", flags.WarmWhitePin, &out.WarmWhitePin},
		{"red-pin", flags.RedPin, &out.RedPin},
		{"green-pin", flags.GreenPin, &out.GreenPin},
		{"blue-pin", flags.BluePin, &out.BluePin},
	}
	for _, o := range overlay {
		if changed(o.flag) {
			*o.dst = o.src
		}
	}
	if changed("led-type") {
		if t, err := led.ParseType(out.LEDType); err == nil {
			out.LEDType = t.Value()
		}
	}
	return out
}

func newRestartCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}
			if err := e.client.Restart(cmd.Context()); err != nil {
				return fmt.Errorf("restart: %w", err)
			}
			e.log.Info().Msg("restart requested")
			return nil
		},
	}
}
