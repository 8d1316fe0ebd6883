// Package config loads the bot configuration from defaults, an optional YAML
// file and REINFORCEBOT_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"reinforcebot/models"
	"reinforcebot/pkg/ocr"
	"reinforcebot/pkg/reinforce"
	"reinforcebot/pkg/rotation"
	"reinforcebot/process/calibrate"
	"reinforcebot/process/capture"
	"reinforcebot/process/inject"
)

// EnvPrefix prefixes environment overrides, e.g. REINFORCEBOT_TARGETS_FARM.
const EnvPrefix = "REINFORCEBOT"

// Config is the full bot configuration.
type Config struct {
	Mode     string              `mapstructure:"mode" yaml:"mode"`
	Targets  reinforce.Targets   `mapstructure:"targets" yaml:"targets"`
	Commands Commands            `mapstructure:"commands" yaml:"commands"`
	Items    reinforce.ItemRules `mapstructure:"items" yaml:"items"`
	OCR      OCR                 `mapstructure:"ocr" yaml:"ocr"`
	Timing   Timing              `mapstructure:"timing" yaml:"timing"`
	Rotation Rotation            `mapstructure:"rotation" yaml:"rotation"`
	Regions  []models.Region     `mapstructure:"regions" yaml:"regions"`
	Capture  Capture             `mapstructure:"capture" yaml:"capture"`
	Input    Input               `mapstructure:"input" yaml:"input"`
	Log      Log                 `mapstructure:"log" yaml:"log"`
}

// Commands are the chat messages typed for each action.
type Commands struct {
	Reinforce string `mapstructure:"reinforce" yaml:"reinforce"`
	Sell      string `mapstructure:"sell" yaml:"sell"`
}

// OCR configures Tesseract and the trust threshold.
type OCR struct {
	Tessdata          string   `mapstructure:"tessdata" yaml:"tessdata"`
	Languages         []string `mapstructure:"languages" yaml:"languages"`
	MinConfidence     float64  `mapstructure:"min_confidence" yaml:"min_confidence"`
	BinarizeBelow     float64  `mapstructure:"binarize_below" yaml:"binarize_below"`
	BinarizeThreshold int      `mapstructure:"binarize_threshold" yaml:"binarize_threshold"`
}

// Timing holds the fixed delays of a tick.
type Timing struct {
	Settle    time.Duration `mapstructure:"settle" yaml:"settle"`
	Tick      time.Duration `mapstructure:"tick" yaml:"tick"`
	PreType   time.Duration `mapstructure:"pre_type" yaml:"pre_type"`
	TypePause time.Duration `mapstructure:"type_pause" yaml:"type_pause"`
}

// MarshalYAML writes durations as "1.5s" rather than nanoseconds.
func (t Timing) MarshalYAML() (interface{}, error) {
	return map[string]string{
		"settle":     t.Settle.String(),
		"tick":       t.Tick.String(),
		"pre_type":   t.PreType.String(),
		"type_pause": t.TypePause.String(),
	}, nil
}

// Rotation configures region rotation.
type Rotation struct {
	Threshold        int `mapstructure:"threshold" yaml:"threshold"`
	RecalibrateAfter int `mapstructure:"recalibrate_after" yaml:"recalibrate_after"`
}

// Capture configures the screenshot command.
type Capture struct {
	Command []string `mapstructure:"command" yaml:"command"`
}

// Input configures keystroke injection and cursor sampling.
type Input struct {
	TypeCommand   []string `mapstructure:"type_command" yaml:"type_command"`
	EnterCommand  []string `mapstructure:"enter_command" yaml:"enter_command"`
	CursorCommand []string `mapstructure:"cursor_command" yaml:"cursor_command"`
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:    models.ModeFarm.String(),
		Targets: reinforce.DefaultTargets(),
		Commands: Commands{
			Reinforce: "@플레이봇 강화",
			Sell:      "@플레이봇 판매",
		},
		Items: reinforce.DefaultItemRules(),
		OCR: OCR{
			Languages:         ocr.DefaultLanguages,
			MinConfidence:     reinforce.DefaultMinConfidence,
			BinarizeBelow:     ocr.DefaultBinarizeBelow,
			BinarizeThreshold: ocr.DefaultBinarizeThreshold,
		},
		Timing: Timing{
			Settle:    capture.DefaultSettle,
			Tick:      300 * time.Millisecond,
			PreType:   inject.DefaultPreType,
			TypePause: inject.DefaultTypePause,
		},
		Rotation: Rotation{Threshold: rotation.DefaultThreshold},
		Capture:  Capture{Command: capture.DefaultCommand},
		Input: Input{
			TypeCommand:   inject.DefaultTypeCommand,
			EnterCommand:  inject.DefaultEnterCommand,
			CursorCommand: calibrate.DefaultCursorCommand,
		},
		Log: Log{Level: "info", Pretty: true},
	}
}

// RunMode parses Mode.
func (c *Config) RunMode() (models.RunMode, error) {
	return models.ParseRunMode(c.Mode)
}

// Policy builds the decision policy described by the configuration.
func (c *Config) Policy() (*reinforce.Policy, error) {
	mode, err := c.RunMode()
	if err != nil {
		return nil, err
	}
	return reinforce.NewPolicy(mode, c.Targets, c.Items), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.RunMode(); err != nil {
		errs = append(errs, err)
	}
	if c.Targets.Farm < 0 || c.Targets.Challenge < 0 {
		errs = append(errs, fmt.Errorf("target levels must not be negative (farm=%d challenge=%d)", c.Targets.Farm, c.Targets.Challenge))
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("ocr.min_confidence %.1f outside 0-100", c.OCR.MinConfidence))
	}
	if c.OCR.BinarizeThreshold < 0 || c.OCR.BinarizeThreshold > 255 {
		errs = append(errs, fmt.Errorf("ocr.binarize_threshold %d outside 0-255", c.OCR.BinarizeThreshold))
	}
	if len(c.Regions) > rotation.MaxRegions {
		errs = append(errs, fmt.Errorf("%d regions configured, at most %d allowed", len(c.Regions), rotation.MaxRegions))
	}
	for i, r := range c.Regions {
		if !r.Usable() {
			errs = append(errs, fmt.Errorf("region %d (%s) is too small", i, r))
		}
	}
	if strings.TrimSpace(c.Commands.Reinforce) == "" || strings.TrimSpace(c.Commands.Sell) == "" {
		errs = append(errs, errors.New("commands.reinforce and commands.sell must be set"))
	}
	return errors.Join(errs...)
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a manager and loads the initial configuration. An empty
// cfgFile searches ./config.yaml and ~/.reinforcebot/config.yaml; a missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

func (m *Manager) initViper(cfgFile string) error {
	v := m.v
	d := DefaultConfig()
	v.SetDefault("mode", d.Mode)
	v.SetDefault("targets.farm", d.Targets.Farm)
	v.SetDefault("targets.challenge", d.Targets.Challenge)
	v.SetDefault("commands.reinforce", d.Commands.Reinforce)
	v.SetDefault("commands.sell", d.Commands.Sell)
	v.SetDefault("items.primary_weapons", d.Items.PrimaryWeapons)
	v.SetDefault("items.always_reinforce", d.Items.AlwaysReinforce)
	v.SetDefault("ocr.tessdata", d.OCR.Tessdata)
	v.SetDefault("ocr.languages", d.OCR.Languages)
	v.SetDefault("ocr.min_confidence", d.OCR.MinConfidence)
	v.SetDefault("ocr.binarize_below", d.OCR.BinarizeBelow)
	v.SetDefault("ocr.binarize_threshold", d.OCR.BinarizeThreshold)
	v.SetDefault("timing.settle", d.Timing.Settle)
	v.SetDefault("timing.tick", d.Timing.Tick)
	v.SetDefault("timing.pre_type", d.Timing.PreType)
	v.SetDefault("timing.type_pause", d.Timing.TypePause)
	v.SetDefault("rotation.threshold", d.Rotation.Threshold)
	v.SetDefault("rotation.recalibrate_after", d.Rotation.RecalibrateAfter)
	v.SetDefault("regions", []map[string]int{})
	v.SetDefault("capture.command", d.Capture.Command)
	v.SetDefault("input.type_command", d.Input.TypeCommand)
	v.SetDefault("input.enter_command", d.Input.EnterCommand)
	v.SetDefault("input.cursor_command", d.Input.CursorCommand)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.reinforcebot")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (m *Manager) load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// FileUsed returns the path of the loaded config file, or "" when running on
// defaults and environment only.
func (m *Manager) FileUsed() string {
	return m.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// WatchConfig reloads the file whenever it changes. Invalid edits are logged
// and the previous configuration stays in effect.
func (m *Manager) WatchConfig(log zerolog.Logger) {
	if m.FileUsed() == "" {
		return
	}
	m.v.OnConfigChange(func(e fsnotify.Event) {
		if err := m.reload(); err != nil {
			log.Warn().Err(err).Str("file", e.Name).Msg("config reload rejected")
			return
		}
		log.Info().Str("file", e.Name).Msg("config reloaded")
	})
	m.v.WatchConfig()
}

func (m *Manager) reload() error {
	cfg, err := m.load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.config = cfg
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
	return nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	return Write(path, DefaultConfig())
}

// Write writes cfg as YAML to path, preceded by a short header.
func Write(path string, cfg *Config) error {
	var buf bytes.Buffer
	buf.WriteString(`# reinforcebot configuration
# mode: farm sells at targets.farm, challenge stops at targets.challenge
# regions: up to 3 capture rectangles; run "reinforcebot calibrate" to measure them

`)
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Encode writes cfg to w as YAML.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}
