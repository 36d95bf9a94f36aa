package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override file defaults,
// e.g. DOCSYNC_DEFAULTS_BACKUP=true.
const EnvPrefix = "DOCSYNC"

var envKeys = []string{
	"defaults.backup",
	"defaults.comments",
	"defaults.binary",
	"defaults.encoding",
}

// Load reads and validates a docsync.yaml job file.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

// Parse decodes and validates a job file held in memory.
func Parse(data []byte) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return cfg, nil
}

// read loads a single file without validating it, so layers can be merged
// before the result is checked.
func read(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d; only version 1 is supported", cfg.Version))
	}

	if len(cfg.Jobs) == 0 {
		errs = append(errs, "at least one job is required")
	}

	names := make(map[string]bool)
	for i, job := range cfg.Jobs {
		prefix := fmt.Sprintf("job[%d]", i)
		if job.Name != "" {
			prefix = fmt.Sprintf("job '%s'", job.Name)
		}

		if job.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if names[job.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate job name '%s'", prefix, job.Name))
		} else {
			names[job.Name] = true
		}

		errs = append(errs, validateJob(job, prefix)...)
	}

	return errs
}

func validateJob(job Job, prefix string) []string {
	var errs []string

	if job.Source == "" {
		errs = append(errs, fmt.Sprintf("%s: 'source' is required", prefix))
	}
	if job.Target == "" {
		errs = append(errs, fmt.Sprintf("%s: 'target' is required", prefix))
	}
	if job.Source != "" && filepath.Clean(job.Source) == filepath.Clean(job.Target) {
		errs = append(errs, fmt.Sprintf("%s: 'source' and 'target' must be different files", prefix))
	}

	if _, err := job.Mappings(); err != nil {
		errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
	}

	return errs
}
