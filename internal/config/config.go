package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	SourceURL       string
	SinkURL         string
	SinkSecret      string
	Port            string
	HTTPTimeout     time.Duration
	LogLevel        slog.Level
	ForecastPeriods int
	Confidence      float64
	LoadOnStart     bool
	CacheEntries    int
}

// FromEnv reads configuration from the environment. CONFIG_FILE, when set,
// points at a file whose keys are the same names in lower case; a file that
// cannot be read is an error.
func FromEnv() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if f := v.GetString("CONFIG_FILE"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", f, err)
		}
	}
	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 15)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FORECAST_PERIODS", 4)
	v.SetDefault("CONFIDENCE", 0.95)
	v.SetDefault("LOAD_ON_START", false)
	v.SetDefault("CACHE_ENTRIES", 128)
}

func fromViper(v *viper.Viper) Config {
	to := time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second
	if to <= 0 {
		to = 15 * time.Second
	}
	lvl := slog.LevelInfo
	switch strings.ToLower(v.GetString("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return Config{
		SourceURL:       v.GetString("SOURCE_URL"),
		SinkURL:         v.GetString("SINK_URL"),
		SinkSecret:      v.GetString("SINK_SECRET"),
		Port:            v.GetString("PORT"),
		HTTPTimeout:     to,
		LogLevel:        lvl,
		ForecastPeriods: v.GetInt("FORECAST_PERIODS"),
		Confidence:      v.GetFloat64("CONFIDENCE"),
		LoadOnStart:     v.GetBool("LOAD_ON_START"),
		CacheEntries:    v.GetInt("CACHE_ENTRIES"),
	}
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.ForecastPeriods < 1 || c.ForecastPeriods > 52 {
		return fmt.Errorf("FORECAST_PERIODS must be between 1 and 52")
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("CONFIDENCE must be between 0 and 1")
	}
	if c.LoadOnStart && c.SourceURL == "" {
		return fmt.Errorf("SOURCE_URL is required when LOAD_ON_START is set")
	}
	if (c.SinkURL == "") != (c.SinkSecret == "") {
		return fmt.Errorf("SINK_URL and SINK_SECRET must be set together")
	}
	return nil
}
