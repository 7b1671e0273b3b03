package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/prefs"
	"github.com/five82/lightpanel/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	API       device.API
	Loader    *device.Loader
	Store     *state.Store
	Logger    zerolog.Logger
	Device    string // address shown in the header
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       device.API
	loader    *device.Loader
	store     *state.Store
	log       zerolog.Logger
	device    string
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	form        form

	// Pending device requests
	loading    bool
	saving     bool
	restarting bool

	// flash is a one-line result of the last action.
	flash      string
	flashError bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	loader := opts.Loader
	if loader == nil && opts.API != nil {
		loader = device.NewLoader(opts.API)
	}

	return Model{
		ctx:       ctx,
		api:       opts.API,
		loader:    loader,
		store:     opts.Store,
		log:       opts.Logger,
		device:    opts.Device,
		prefsPath: opts.PrefsPath,
		pollTick:  pollTick,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		form:      newForm(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.loader != nil {
		cmds = append(cmds, loadConfigCmd(m.ctx, m.loader))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		// The poller may reach the node before the first explicit load does.
		if !m.form.loaded && m.snapshot.HasConfig {
			m.form.load(device.SettingsFromConfig(m.snapshot.Config))
		}
		return m, nil

	case configLoadedMsg:
		return m.handleConfigLoaded(msg)

	case saveDoneMsg:
		m.saving = false
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("save settings failed")
			m.setFlash("Save failed", true)
		} else {
			m.log.Info().Str("device_name", msg.settings.DeviceName).Msg("settings saved")
			m.form.baseline = msg.settings
			m.setFlash("Settings sent", false)
		}
		m.modal = newRestartNotice(msg.err)
		return m, nil

	case restartDoneMsg:
		m.restarting = false
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("restart failed")
			m.setFlash("Restart failed: "+msg.err.Error(), true)
		} else {
			m.log.Info().Msg("restart requested")
			m.setFlash("Restart requested", false)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleConfigLoaded(msg configLoadedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, device.ErrLoadInFlight) {
		// Another load owns the request; its result will arrive via the store.
		m.loading = false
		return m, nil
	}
	m.loading = false
	if m.store != nil {
		if msg.err != nil {
			m.store.Update(nil, msg.err)
		} else {
			resp := msg.resp
			m.store.Update(&resp, nil)
		}
		m.snapshot = m.store.Snapshot()
		m.lastUpdated = time.Now()
	}
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("config load failed")
		m.setFlash("Load failed", true)
		return m, nil
	}
	m.log.Debug().Int("fields", msg.resp.Len()).Msg("config loaded")
	m.form.load(device.SettingsFromConfig(msg.resp))
	m.setFlash("Config loaded", false)
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			name := m.theme.Name
			if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
				m.log.Warn().Err(err).Msg("save prefs")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Restart):
		return m.restart()

	case key.Matches(msg, m.keys.Reload):
		if m.loader == nil || m.loading {
			return m, nil
		}
		m.loading = true
		return m, loadConfigCmd(m.ctx, m.loader)

	case key.Matches(msg, m.keys.Reset):
		m.form.reset()
		m.setFlash("Edits discarded", false)
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.form.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.form.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.flash = ""
		return m, nil
	}

	if m.form.current().kind == fieldChoice {
		switch {
		case key.Matches(msg, m.keys.OptionNext):
			m.form.current().cycle(1)
		case key.Matches(msg, m.keys.OptionPrev):
			m.form.current().cycle(-1)
		}
		return m, nil
	}

	return m, m.form.update(msg)
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.api == nil || m.saving {
		return m, nil
	}
	m.saving = true
	settings := m.form.settings()
	m.log.Debug().Str("query", settings.Query()).Msg("submitting settings")
	return m, saveCmd(m.ctx, m.api, settings)
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	if m.api == nil || m.restarting {
		return m, nil
	}
	m.restarting = true
	return m, restartCmd(m.ctx, m.api)
}

func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashError = isError
}

// renderMain renders the header, command bar and form.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderForm())

	return b.String()
}

// renderForm renders the settings rows inside a bordered panel.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	labelStyle := lipgloss.NewStyle().Width(18)

	var rows []string
	for i, field := range m.form.fields {
		focused := i == m.form.focus

		unused := field.kind == fieldChoice && !m.form.channelUsed(field.key)

		var label string
		switch {
		case focused:
			label = labelStyle.Inherit(styles.AccentText.Bold(true)).
				Background(lipgloss.Color(m.theme.FocusBg)).
				Render(field.label)
		case unused:
			label = labelStyle.Inherit(styles.SurfaceAlt).Render(field.label)
		default:
			label = labelStyle.Inherit(styles.MutedText).Render(field.label)
		}

		var value string
		switch field.kind {
		case fieldText:
			value = field.input.View()
		case fieldChoice:
			text := ""
			if len(field.options) > 0 {
				text = field.options[field.index].label
			}
			if focused {
				value = styles.AccentText.Render("‹ ") + styles.Selected.Render(text) + styles.AccentText.Render(" ›")
			} else {
				value = "  " + styles.Text.Render(text)
			}
			if unused {
				value += styles.FaintText.Render("  unused")
			}
		}
		rows = append(rows, label+value)
	}

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashError {
			style = styles.DangerText
		}
		rows = append(rows, "", style.Render(m.flash))
	}
	if m.form.dirty() {
		rows = append(rows, styles.WarningText.Render("Unsaved changes"))
	}

	width := 56
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	panel := styles.Panel.BorderForeground(lipgloss.Color(m.formBorder())).Width(width)
	return panel.Render(strings.Join(rows, "\n"))
}

// formBorder dims the form border until the node's values are loaded.
func (m Model) formBorder() string {
	if !m.form.loaded {
		return m.theme.BorderMuted
	}
	return m.theme.BorderFocus
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type configLoadedMsg struct {
	resp device.ConfigResponse
	err  error
}

type saveDoneMsg struct {
	settings device.Settings
	err      error
}

type restartDoneMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loadConfigCmd(ctx context.Context, loader *device.Loader) tea.Cmd {
	return func() tea.Msg {
		resp, err := loader.Load(ctx)
		return configLoadedMsg{resp: resp, err: err}
	}
}

func saveCmd(ctx context.Context, api device.API, s device.Settings) tea.Cmd {
	return func() tea.Msg {
		err := api.SaveSettings(ctx, s)
		if err != nil {
			err = fmt.Errorf("save settings: %w", err)
		}
		return saveDoneMsg{settings: s, err: err}
	}
}

func restartCmd(ctx context.Context, api device.API) tea.Cmd {
	return func() tea.Msg {
		return restartDoneMsg{err: api.Restart(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
