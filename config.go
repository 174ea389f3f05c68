package vacation

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/vacation/model"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StoreFS       = "fs"
	StorePostgres = "postgres"
)

// Lock kinds.
const (
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from YAML, JSON or environment variables; DefaultConfig
// returns a configuration usable without any external dependency.
type Config struct {
	// Location is the IANA zone in which vacation dates are evaluated.
	Location string         `json:"location" yaml:"location" mapstructure:"location"`
	Settings SettingsConfig `json:"settings" yaml:"settings" mapstructure:"settings"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Lock     LockConfig     `json:"lock" yaml:"lock" mapstructure:"lock"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	// Actors seed the directory and team rosters.
	Actors []*model.Actor `json:"actors,omitempty" yaml:"actors,omitempty" mapstructure:"actors"`
}

// SettingsConfig holds organisation settings. When URL is set the settings
// are read from that YAML document instead.
type SettingsConfig struct {
	URL                         string   `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	DefaultVacationDays         int      `json:"defaultVacationDays" yaml:"defaultVacationDays" mapstructure:"defaultVacationDays"`
	TeamOccupancyThreshold      int      `json:"teamOccupancyThreshold" yaml:"teamOccupancyThreshold" mapstructure:"teamOccupancyThreshold"`
	MinRequestAdvanceNoticeDays int      `json:"minRequestAdvanceNoticeDays" yaml:"minRequestAdvanceNoticeDays" mapstructure:"minRequestAdvanceNoticeDays"`
	Holidays                    []string `json:"holidays,omitempty" yaml:"holidays,omitempty" mapstructure:"holidays"`
}

type StoreConfig struct {
	Kind    string `json:"kind" yaml:"kind" mapstructure:"kind"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty" mapstructure:"baseURL"`
	DSN     string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`
}

type LockConfig struct {
	Kind       string        `json:"kind" yaml:"kind" mapstructure:"kind"`
	Addr       string        `json:"addr,omitempty" yaml:"addr,omitempty" mapstructure:"addr"`
	Password   string        `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	DB         int           `json:"db,omitempty" yaml:"db,omitempty" mapstructure:"db"`
	Expiry     time.Duration `json:"expiry" yaml:"expiry" mapstructure:"expiry"`
	Tries      int           `json:"tries" yaml:"tries" mapstructure:"tries"`
	RetryDelay time.Duration `json:"retryDelay" yaml:"retryDelay" mapstructure:"retryDelay"`
}

type TracingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// OutputFile receives spans; stdout when empty.
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" mapstructure:"outputFile"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

type HTTPConfig struct {
	Port            int           `json:"port" yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout" mapstructure:"shutdownTimeout"`
}

// DefaultConfig returns an in-memory configuration with default organisation settings.
func DefaultConfig() *Config {
	defaults := model.DefaultSettings()
	return &Config{
		Location: "UTC",
		Settings: SettingsConfig{
			DefaultVacationDays:         defaults.DefaultVacationDays,
			TeamOccupancyThreshold:      defaults.TeamOccupancyThreshold,
			MinRequestAdvanceNoticeDays: defaults.MinRequestAdvanceNoticeDays,
		},
		Store: StoreConfig{Kind: StoreMemory},
		Lock: LockConfig{
			Kind:       LockMemory,
			Expiry:     10 * time.Second,
			Tries:      20,
			RetryDelay: 100 * time.Millisecond,
		},
		Log:  LogConfig{Level: "info", Format: "json"},
		HTTP: HTTPConfig{Port: 8080, ShutdownTimeout: 10 * time.Second},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	if c.Settings.URL == "" {
		aSettings, err := c.Settings.Model()
		if err != nil {
			return err
		}
		if err = aSettings.Validate(); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}
	switch strings.ToLower(c.Store.Kind) {
	case StoreMemory:
	case StoreFS:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for %v store", StoreFS)
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for %v store", StorePostgres)
		}
	default:
		return fmt.Errorf("unsupported store.kind: %q", c.Store.Kind)
	}
	switch strings.ToLower(c.Lock.Kind) {
	case LockMemory:
	case LockRedis:
		if c.Lock.Addr == "" {
			return fmt.Errorf("lock.addr is required for %v lock", LockRedis)
		}
	default:
		return fmt.Errorf("unsupported lock.kind: %q", c.Lock.Kind)
	}
	for i, actor := range c.Actors {
		if actor == nil || actor.ID == "" {
			return fmt.Errorf("actors[%d].id is required", i)
		}
		if !actor.Role.IsValid() {
			return fmt.Errorf("actors[%d].role %q is not supported", i, actor.Role)
		}
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be within 1..65535, got %d", c.HTTP.Port)
	}
	return nil
}

// TimeLocation resolves Location; empty means UTC.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.UTC, nil
	}
	ret, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return ret, nil
}

// Model converts the configured settings, parsing holidays.
func (s *SettingsConfig) Model() (*model.Settings, error) {
	ret := &model.Settings{
		DefaultVacationDays:         s.DefaultVacationDays,
		TeamOccupancyThreshold:      s.TeamOccupancyThreshold,
		MinRequestAdvanceNoticeDays: s.MinRequestAdvanceNoticeDays,
	}
	for _, holiday := range s.Holidays {
		date, err := model.ParseDate(strings.TrimSpace(holiday))
		if err != nil {
			return nil, fmt.Errorf("settings.holidays: %w", err)
		}
		ret.Holidays = append(ret.Holidays, date)
	}
	return ret, nil
}
