package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the effective bodysense configuration.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	DBPath  string        `mapstructure:"db_path"`
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Session SessionConfig `mapstructure:"session"`
	Timings TimingsConfig `mapstructure:"timings"`
	Server  ServerConfig  `mapstructure:"server"`
	History HistoryConfig `mapstructure:"history"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File overrides the log location; empty means <data_dir>/bodysense.log.
	File string `mapstructure:"file"`
}

type CatalogConfig struct {
	// Path points at a YAML catalog replacing the embedded one. Empty keeps
	// the shipped catalog.
	Path string `mapstructure:"path"`
	// Watch reloads Path when it changes on disk.
	Watch bool `mapstructure:"watch"`
}

type SessionConfig struct {
	// TickInterval is how often hosts call Tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// TimingsConfig holds phase durations. Non-default values are meant for
// demos and tests; the routine is calibrated for the defaults.
type TimingsConfig struct {
	Seal       time.Duration `mapstructure:"seal"`
	Start      time.Duration `mapstructure:"start"`
	Massage    time.Duration `mapstructure:"massage"`
	ResumeSeal time.Duration `mapstructure:"resume_seal"`
	Release    time.Duration `mapstructure:"release"`
	AutoStart  time.Duration `mapstructure:"auto_start"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type HistoryConfig struct {
	// Journal writes a markdown note per completed routine under
	// <data_dir>/journal.
	Journal bool `mapstructure:"journal"`
}

// Default returns the built-in configuration rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "bodysense.db"),
		Log:     LogConfig{Level: "info"},
		Session: SessionConfig{TickInterval: 50 * time.Millisecond},
		Timings: TimingsConfig{
			Seal:       3 * time.Second,
			Start:      2 * time.Second,
			Massage:    10 * time.Second,
			ResumeSeal: 3 * time.Second,
			Release:    3 * time.Second,
			AutoStart:  5 * time.Second,
		},
		Server:  ServerConfig{Addr: "127.0.0.1:8787"},
		History: HistoryConfig{Journal: true},
	}
}

// DefaultDataDir is where state lives when --data-dir is not given.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bodysense")
	}
	return ".bodysense"
}

// SetDefaults registers every key so env overrides work without a file.
func SetDefaults(v *viper.Viper, dataDir string) {
	d := Default(dataDir)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("catalog.watch", d.Catalog.Watch)
	v.SetDefault("session.tick_interval", d.Session.TickInterval)
	v.SetDefault("timings.seal", d.Timings.Seal)
	v.SetDefault("timings.start", d.Timings.Start)
	v.SetDefault("timings.massage", d.Timings.Massage)
	v.SetDefault("timings.resume_seal", d.Timings.ResumeSeal)
	v.SetDefault("timings.release", d.Timings.Release)
	v.SetDefault("timings.auto_start", d.Timings.AutoStart)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("history.journal", d.History.Journal)
}

// Init prepares v: defaults, config file search paths and BODYSENSE_* env
// overrides. A missing config file is not an error.
func Init(v *viper.Viper, dataDir, cfgFile string) error {
	SetDefaults(v, dataDir)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
		v.AddConfigPath("$HOME/.config/bodysense")
	}
	v.SetEnvPrefix("BODYSENSE")
	// BODYSENSE_TIMINGS_MASSAGE for timings.massage
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && os.IsNotExist(err)) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes v into a validated Config.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" && cfg.DataDir != "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "bodysense.db")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return Config{}, errs
	}
	return cfg, nil
}

// New builds a Config for dataDir with defaults and environment overrides
// only.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	v := viper.New()
	if err := Init(v, dataDir, ""); err != nil {
		return Config{}, err
	}
	return Load(v)
}

// LogPath is where the structured log is written.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "bodysense.log")
}

// JournalDir is where completed-routine notes are written.
func (c Config) JournalDir() string {
	return filepath.Join(c.DataDir, "journal")
}
