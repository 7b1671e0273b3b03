package emulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/five82/lightpanel/internal/led"
)

// Firmware is the version string the emulated node reports.
const Firmware = "1.11"

const configFile = "config.json"

// NodeConfig is the persisted node configuration. Field order matches the
// document the firmware writes, which is also the order /config serves.
type NodeConfig struct {
	Firmware     string `json:"firmware"`
	NetName      string `json:"espnowNetName"`
	DeviceName   string `json:"deviceName"`
	LEDType      uint8  `json:"ledType"`
	LEDStatus    bool   `json:"ledStatus"`
	ColdWhitePin uint8  `json:"coldWhitePin"`
	WarmWhitePin uint8  `json:"warmWhitePin"`
	RedPin       uint8  `json:"redPin"`
	GreenPin     uint8  `json:"greenPin"`
	BluePin      uint8  `json:"bluePin"`
	Brightness   uint8  `json:"brightness"`
	Temperature  uint16 `json:"temperature"`
	Red          uint8  `json:"red"`
	Green        uint8  `json:"green"`
	Blue         uint8  `json:"blue"`
	System       string `json:"system"`
}

// DefaultNodeConfig is written on first boot.
func DefaultNodeConfig(chipID uint32) NodeConfig {
	return NodeConfig{
		Firmware:    Firmware,
		NetName:     "DEFAULT",
		DeviceName:  "ESP-NOW light " + strconv.FormatUint(uint64(chipID), 16),
		Brightness:  255,
		Temperature: 255,
		Red:         255,
		Green:       255,
		Blue:        255,
		System:      "empty",
	}
}

// LightState converts the stored configuration into the state driving the
// LED outputs.
func (c NodeConfig) LightState() led.State {
	return led.State{
		Type:        led.Type(c.LEDType),
		On:          c.LEDStatus,
		Brightness:  int(c.Brightness),
		Temperature: int(c.Temperature),
		Red:         int(c.Red),
		Green:       int(c.Green),
		Blue:        int(c.Blue),
		Wiring: led.Wiring{
			ColdWhite: c.ColdWhitePin,
			WarmWhite: c.WarmWhitePin,
			Red:       c.RedPin,
			Green:     c.GreenPin,
			Blue:      c.BluePin,
		},
	}
}

// Store persists NodeConfig as config.json inside a data directory.
type Store struct {
	mu     sync.RWMutex
	path   string
	chipID uint32
	cfg    NodeConfig
}

// OpenStore loads config.json from dir, writing defaults when it is missing.
func OpenStore(dir string, chipID uint32) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{path: filepath.Join(dir, configFile), chipID: chipID}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads config.json. A missing file is recreated with defaults.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.cfg = DefaultNodeConfig(s.chipID)
		return s.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("read node config: %w", err)
	}

	var cfg NodeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse node config: %w", err)
	}
	// The firmware always writes its own version on save.
	cfg.Firmware = Firmware
	s.cfg = cfg
	return nil
}

// Get returns the current configuration.
func (s *Store) Get() NodeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies fn to the configuration and persists the result.
func (s *Store) Update(fn func(*NodeConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.cfg)
	return s.saveLocked()
}

// Document returns the configuration as served on /config.
func (s *Store) Document() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.cfg, "", "  ")
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal node config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write node config: %w", err)
	}
	return nil
}
