package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client settings. Values come from defaults, an optional
// shulesync.yaml in the working directory or $HOME/.shulesync, and
// SHULESYNC_* environment variables, in increasing precedence.
type Config struct {
	ServerURL         string        `mapstructure:"server_url"`
	DBPath            string        `mapstructure:"db_path"`
	AuthDBPath        string        `mapstructure:"auth_db_path"`
	ClassID           string        `mapstructure:"class_id"`
	AcademicYear      int           `mapstructure:"academic_year"`
	SyncInterval      time.Duration `mapstructure:"sync_interval"`
	ProbeInterval     time.Duration `mapstructure:"probe_interval"`
	ReconnectDebounce time.Duration `mapstructure:"reconnect_debounce"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Notifications     bool          `mapstructure:"notifications"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("db_path", "shulesync.db")
	v.SetDefault("auth_db_path", "shulesync-auth.db")
	v.SetDefault("sync_interval", time.Hour)
	v.SetDefault("probe_interval", 30*time.Second)
	v.SetDefault("reconnect_debounce", 2*time.Second)
	v.SetDefault("max_retries", 3)
	v.SetDefault("notifications", false)

	v.SetConfigName("shulesync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.shulesync")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, everything has a default.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHULESYNC")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
