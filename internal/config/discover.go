package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileNames are the project job file names, in lookup order.
var FileNames = []string{"docsync.yaml", "docsync.yml"}

const configDirName = "docsync"

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level job file (required).
	ProjectPath string

	// UserConfigPath overrides the default user config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	UserConfigPath string

	// NoInherit skips the user layer.
	NoInherit bool
}

// FindProjectConfig returns the first job file found in dir.
func FindProjectConfig(dir string) (string, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &fs.PathError{Op: "find", Path: filepath.Join(dir, FileNames[0]), Err: fs.ErrNotExist}
}

// DiscoverPaths returns the ordered list of config file paths to check,
// from lowest precedence (user) to highest (project).
// Paths are deduplicated by resolved absolute path.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	var layers []ConfigLayerInfo
	seen := make(map[string]bool)

	addLayer := func(level ConfigLevel, path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		layers = append(layers, ConfigLayerInfo{Path: path, Level: level})
	}

	if !opts.NoInherit {
		userPath := opts.UserConfigPath
		if userPath == "" {
			userPath = defaultUserConfigPath()
		}
		addLayer(LevelUser, userPath)
	}
	addLayer(LevelProject, opts.ProjectPath)

	return layers
}

// LoadLayered reads every discovered layer that exists, merges them and
// validates the result. The returned layers report what was loaded.
func LoadLayered(opts DiscoverOptions) (*Config, []ConfigLayerInfo, error) {
	layers := DiscoverPaths(opts)

	var configs []*Config
	for i := range layers {
		l := &layers[i]
		cfg, err := read(l.Path)
		if err != nil {
			if l.Level != LevelProject && isNotExist(l.Path) {
				continue
			}
			l.Err = err
			return nil, layers, err
		}
		l.Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, layers, err
	}
	if errs := Validate(merged); len(errs) > 0 {
		return nil, layers, &ValidationError{Errors: errs}
	}
	return merged, layers, nil
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}

// defaultUserConfigPath returns the platform-standard user config path.
func defaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, FileNames[0])
}

// EnvNoInherit returns true if DOCSYNC_NO_INHERIT is set to "1" or "true".
func EnvNoInherit() bool {
	return envBoolTrue(EnvPrefix + "_NO_INHERIT")
}

// envBoolTrue returns true if the env var is set to "1" or "true" (case-insensitive).
func envBoolTrue(key string) bool {
	v := os.Getenv(key)
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true"
}
