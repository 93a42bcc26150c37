// Package config resolves runtime settings from defaults, an optional YAML
// file, an optional .env file and STREAKD_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "STREAKD"

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Runtime struct {
	StatePath            string        `mapstructure:"state_path"`
	Store                string        `mapstructure:"store"`
	SQLitePath           string        `mapstructure:"sqlite_path"`
	HeartbeatInterval    time.Duration `mapstructure:"heartbeat_interval"`
	HeartbeatBuffer      int           `mapstructure:"heartbeat_buffer"`
	InboxBuffer          int           `mapstructure:"inbox_buffer"`
	DesktopNotifications bool          `mapstructure:"desktop_notifications"`
	NotificationActions  bool          `mapstructure:"notification_actions"`
	Sound                bool          `mapstructure:"sound"`
	RemoteAddr           string        `mapstructure:"remote_addr"`
	LogPath              string        `mapstructure:"log_path"`
	LogLevel             string        `mapstructure:"log_level"`
	LogFormat            string        `mapstructure:"log_format"`
}

func Default() Runtime {
	return Runtime{
		StatePath:            ".streakd_state.json",
		Store:                StoreFile,
		SQLitePath:           ".streakd.db",
		HeartbeatInterval:    time.Second,
		HeartbeatBuffer:      64,
		InboxBuffer:          32,
		DesktopNotifications: false,
		NotificationActions:  true,
		Sound:                true,
		RemoteAddr:           "127.0.0.1:7788",
		LogPath:              ".streakd.log",
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// Loader reads configuration. Empty paths are skipped; a missing EnvFile is
// not an error, a missing ConfigFile is.
type Loader struct {
	ConfigFile string
	EnvFile    string
}

func Load(configFile string) (Runtime, error) {
	return Loader{ConfigFile: configFile, EnvFile: ".env"}.Load()
}

func (l Loader) Load() (Runtime, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path := strings.TrimSpace(l.ConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Runtime{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := applyEnvFile(v, l.EnvFile); err != nil {
		return Runtime{}, err
	}

	var cfg Runtime
	if err := v.Unmarshal(&cfg); err != nil {
		return Runtime{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Runtime{}, err
	}
	return cfg, nil
}

func (c Runtime) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("%w: store %q", ErrInvalidConfig, c.Store)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeat_interval %s", ErrInvalidConfig, c.HeartbeatInterval)
	}
	if c.HeartbeatInterval > time.Minute {
		return fmt.Errorf("%w: heartbeat_interval %s exceeds one minute", ErrInvalidConfig, c.HeartbeatInterval)
	}
	if c.HeartbeatBuffer <= 0 || c.InboxBuffer <= 0 {
		return fmt.Errorf("%w: buffers must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Runtime) {
	v.SetDefault("state_path", d.StatePath)
	v.SetDefault("store", d.Store)
	v.SetDefault("sqlite_path", d.SQLitePath)
	v.SetDefault("heartbeat_interval", d.HeartbeatInterval)
	v.SetDefault("heartbeat_buffer", d.HeartbeatBuffer)
	v.SetDefault("inbox_buffer", d.InboxBuffer)
	v.SetDefault("desktop_notifications", d.DesktopNotifications)
	v.SetDefault("notification_actions", d.NotificationActions)
	v.SetDefault("sound", d.Sound)
	v.SetDefault("remote_addr", d.RemoteAddr)
	v.SetDefault("log_path", d.LogPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// applyEnvFile layers STREAKD_* entries from a dotenv file under the real
// environment without mutating the process environment.
func applyEnvFile(v *viper.Viper, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	entries, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	prefix := EnvPrefix + "_"
	for name, value := range entries {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(strings.ToLower(strings.TrimPrefix(name, prefix)), value)
	}
	return nil
}
