package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError is a single invalid config value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate returns nil when the config is usable.
func (c Config) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, ValidationError{Field: "data_dir", Value: c.DataDir, Message: "must not be empty"})
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	if c.Session.TickInterval <= 0 || c.Session.TickInterval > time.Second {
		errs = append(errs, ValidationError{Field: "session.tick_interval", Value: c.Session.TickInterval, Message: "must be in (0, 1s]"})
	}
	timings := []struct {
		field string
		value time.Duration
	}{
		{"timings.seal", c.Timings.Seal},
		{"timings.start", c.Timings.Start},
		{"timings.massage", c.Timings.Massage},
		{"timings.resume_seal", c.Timings.ResumeSeal},
		{"timings.release", c.Timings.Release},
		{"timings.auto_start", c.Timings.AutoStart},
	}
	for _, t := range timings {
		if t.value <= 0 {
			errs = append(errs, ValidationError{Field: t.field, Value: t.value, Message: "must be positive"})
		}
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Value: c.Server.Addr, Message: "must not be empty"})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
