package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestNewUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "bodysense.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.Timings.Seal != 3*time.Second || cfg.Timings.Massage != 10*time.Second || cfg.Timings.AutoStart != 5*time.Second {
		t.Fatalf("unexpected timings %+v", cfg.Timings)
	}
	if !cfg.History.Journal {
		t.Fatalf("journal should default on")
	}
	if cfg.JournalDir() != filepath.Join(dir, "journal") {
		t.Fatalf("unexpected journal dir %q", cfg.JournalDir())
	}
	if cfg.LogPath() != filepath.Join(dir, "bodysense.log") {
		t.Fatalf("unexpected log path %q", cfg.LogPath())
	}
}

func TestInitReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	raw := "log:\n  level: debug\ntimings:\n  massage: 4s\nhistory:\n  journal: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	v := viper.New()
	if err := Init(v, dir, ""); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Timings.Massage != 4*time.Second || cfg.History.Journal {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Timings.Seal != 3*time.Second {
		t.Fatalf("defaults lost: %+v", cfg.Timings)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BODYSENSE_TIMINGS_RELEASE", "1500ms")
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Timings.Release != 1500*time.Millisecond {
		t.Fatalf("env override not applied: %v", cfg.Timings.Release)
	}
}

func TestMissingExplicitFileFails(t *testing.T) {
	t.Parallel()
	v := viper.New()
	if err := Init(v, t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidateAggregates(t *testing.T) {
	t.Parallel()
	cfg := Default(t.TempDir())
	cfg.Log.Level = "loud"
	cfg.Timings.Seal = 0
	cfg.Session.TickInterval = 2 * time.Second
	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %d: %v", len(errs), errs)
	}
	var target ValidationErrors
	if !errors.As(error(errs), &target) {
		t.Fatalf("expected ValidationErrors")
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"log.level", "timings.seal", "session.tick_interval"} {
		if !fields[f] {
			t.Fatalf("missing error for %s", f)
		}
	}
}

func TestNewRequiresDataDir(t *testing.T) {
	t.Parallel()
	if _, err := New(""); err == nil {
		t.Fatalf("expected error")
	}
}
