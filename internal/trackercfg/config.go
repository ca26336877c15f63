// Package trackercfg loads the tracking agent's configuration from a YAML
// file with environment overrides.
package trackercfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tracking agent's settings.
type Config struct {
	ServerURL    string        `mapstructure:"serverUrl"`
	StorePath    string        `mapstructure:"storePath"`
	PollPeriod   time.Duration `mapstructure:"pollPeriod"`
	SyncInterval time.Duration `mapstructure:"syncInterval"`
	LogLevel     string        `mapstructure:"logLevel"`

	// Extra site lists appended to the built-in classifier lists.
	LearningSites    []string `mapstructure:"learningSites"`
	DistractionSites []string `mapstructure:"distractionSites"`

	// Group codes whose leaderboards the agent polls for rank history.
	Groups []string `mapstructure:"groups"`
}

// Load reads the config file at path. A missing file yields defaults;
// environment variables always override.
func Load(path string) (*Config, error) {
	v := viper.New()

	filename := filepath.Base(path)
	v.AddConfigPath(filepath.Dir(path))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("serverUrl", "http://localhost:8080")
	v.SetDefault("storePath", defaultStorePath())
	v.SetDefault("pollPeriod", 10*time.Second)
	v.SetDefault("syncInterval", time.Minute)
	v.SetDefault("logLevel", "info")

	v.BindEnv("serverUrl", "STUDYBEE_SERVER_URL")
	v.BindEnv("storePath", "STUDYBEE_STORE_PATH")
	v.BindEnv("pollPeriod", "STUDYBEE_POLL_PERIOD")
	v.BindEnv("syncInterval", "STUDYBEE_SYNC_INTERVAL")
	v.BindEnv("logLevel", "STUDYBEE_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.PollPeriod <= 0 {
		return nil, fmt.Errorf("pollPeriod must be positive, got %s", conf.PollPeriod)
	}
	if conf.SyncInterval <= 0 {
		return nil, fmt.Errorf("syncInterval must be positive, got %s", conf.SyncInterval)
	}

	return &conf, nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studybee.db"
	}
	return filepath.Join(home, ".studybee", "tracker.db")
}
