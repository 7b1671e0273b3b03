package emulator

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/lightpanel/internal/device"
	"github.com/five82/lightpanel/internal/led"
	"github.com/five82/lightpanel/internal/panel"
)

//go:embed web/index.htm
var indexPage string

// IndexPage returns the settings page markup served at /.
func IndexPage() string {
	return indexPage
}

// Options configure the emulated node.
type Options struct {
	DataDir string
	// ChipID names the default device; zero picks a random one.
	ChipID uint32
	Logger zerolog.Logger
}

// Server emulates a light node's settings web server.
type Server struct {
	router  *chi.Mux
	store   *Store
	dataDir string
	log     zerolog.Logger
	boots   atomic.Int32
}

// New opens the node's data directory and boots the emulated node.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.DataDir) == "" {
		return nil, fmt.Errorf("data dir required")
	}
	chipID := opts.ChipID
	if chipID == 0 {
		chipID = uuid.New().ID() & 0xffffff
	}
	store, err := OpenStore(opts.DataDir, chipID)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  chi.NewRouter(),
		store:   store,
		dataDir: opts.DataDir,
		log:     opts.Logger,
	}
	s.setupRoutes()
	s.boot()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Config returns the node's current stored configuration.
func (s *Server) Config() NodeConfig {
	return s.store.Get()
}

// Boots reports how many times the node has booted, including the first.
func (s *Server) Boots() int {
	return int(s.boots.Load())
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/panel", s.handlePanel)
	s.router.Get("/config", s.handleConfig)
	s.router.Get("/setting", s.handleSetting)
	s.router.Get("/restart", s.handleRestart)
	s.router.NotFound(s.handleFile)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

// handlePanel serves the settings page already loaded with the node's
// configuration, for browsers without the page script.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var resp device.ConfigResponse
	if err := resp.UnmarshalJSON(doc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	page, err := panel.Render(indexPage, resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Document()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

func (s *Server) handleSetting(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	values := make(map[string]string, 8)
	for _, p := range (device.Settings{}).Params() {
		if !query.Has(p.Key) {
			http.Error(w, "Missing parameter "+p.Key, http.StatusBadRequest)
			return
		}
		values[p.Key] = query.Get(p.Key)
	}

	w.WriteHeader(http.StatusOK)

	err := s.store.Update(func(c *NodeConfig) {
		c.LEDType = toUint8(values[device.KeyLEDType])
		c.ColdWhitePin = toUint8(values[device.KeyColdWhitePin])
		c.WarmWhitePin = toUint8(values[device.KeyWarmWhitePin])
		c.RedPin = toUint8(values[device.KeyRedPin])
		c.GreenPin = toUint8(values[device.KeyGreenPin])
		c.BluePin = toUint8(values[device.KeyBluePin])
		c.DeviceName = values[device.KeyDeviceName]
		c.NetName = values[device.KeyNetName]
	})
	if err != nil {
		s.log.Error().Err(err).Msg("save settings")
		return
	}
	cfg := s.store.Get()
	s.log.Info().
		Str("device_name", cfg.DeviceName).
		Str("net_name", cfg.NetName).
		Stringer("led_type", led.Type(cfg.LEDType)).
		Msg("settings saved")
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if err := s.store.Reload(); err != nil {
		s.log.Error().Err(err).Msg("reload node config")
		return
	}
	s.boot()
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(s.dataDir, filepath.FromSlash(pathClean(r.URL.Path)))
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("File Not Found"))
		return
	}
	http.ServeFile(w, r, name)
}

// boot applies the stored light state to the outputs, as the node does at
// power-up.
func (s *Server) boot() {
	n := s.boots.Add(1)
	cfg := s.store.Get()
	state := cfg.LightState()
	s.log.Info().
		Int("boot", int(n)).
		Str("device_name", cfg.DeviceName).
		Str("firmware", cfg.Firmware).
		Stringer("led_type", state.Type).
		Bool("on", state.On).
		Msg("node booted")
	for _, out := range led.Outputs(state) {
		s.log.Debug().
			Str("channel", string(out.Channel)).
			Str("pin", led.PinLabel(out.Pin)).
			Bool("analog", out.Analog).
			Int("level", out.Level).
			Msg("output")
	}
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("data_dir", s.dataDir).Msg("emulator listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// toUint8 parses the leading decimal integer of v the way the node's
// String.toInt does: no digits yields 0 and the result wraps to a byte.
func toUint8(v string) uint8 {
	v = strings.TrimLeft(v, " \t\r\n")
	neg := false
	if v != "" && (v[0] == '-' || v[0] == '+') {
		neg = v[0] == '-'
		v = v[1:]
	}
	var n int64
	for i := 0; i < len(v) && v[i] >= '0' && v[i] <= '9'; i++ {
		n = (n*10 + int64(v[i]-'0')) & 0xffffffff
	}
	if neg {
		n = -n
	}
	return uint8(n)
}

// pathClean turns a request path into a data-dir relative path that cannot
// climb out of the directory.
func pathClean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
