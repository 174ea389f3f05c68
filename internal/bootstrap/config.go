// Package bootstrap turns a vacation.Config into a running set of
// collaborators: configuration loading, logger, stores, lock and settings.
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/viant/vacation"
)

// EnvPrefix prefixes environment overrides, e.g. VACATION_HTTP_PORT.
const EnvPrefix = "VACATION"

// LoadConfig reads configuration from path (or config.yaml in ./config and
// the working directory when path is empty) and the environment.
// Precedence: environment, file, defaults.
func LoadConfig(path string) (*vacation.Config, error) {
	v := viper.New()
	setDefaults(v, vacation.DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	cfg := &vacation.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *vacation.Config) {
	v.SetDefault("location", cfg.Location)

	v.SetDefault("settings.url", cfg.Settings.URL)
	v.SetDefault("settings.defaultVacationDays", cfg.Settings.DefaultVacationDays)
	v.SetDefault("settings.teamOccupancyThreshold", cfg.Settings.TeamOccupancyThreshold)
	v.SetDefault("settings.minRequestAdvanceNoticeDays", cfg.Settings.MinRequestAdvanceNoticeDays)
	v.SetDefault("settings.holidays", cfg.Settings.Holidays)

	v.SetDefault("store.kind", cfg.Store.Kind)
	v.SetDefault("store.baseURL", cfg.Store.BaseURL)
	v.SetDefault("store.dsn", cfg.Store.DSN)

	v.SetDefault("lock.kind", cfg.Lock.Kind)
	v.SetDefault("lock.addr", cfg.Lock.Addr)
	v.SetDefault("lock.password", cfg.Lock.Password)
	v.SetDefault("lock.db", cfg.Lock.DB)
	v.SetDefault("lock.expiry", cfg.Lock.Expiry)
	v.SetDefault("lock.tries", cfg.Lock.Tries)
	v.SetDefault("lock.retryDelay", cfg.Lock.RetryDelay)

	v.SetDefault("tracing.enabled", cfg.Tracing.Enabled)
	v.SetDefault("tracing.outputFile", cfg.Tracing.OutputFile)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.shutdownTimeout", cfg.HTTP.ShutdownTimeout)
}
