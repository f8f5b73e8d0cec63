package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "contracts"

const (
	settingsFile = "config.toml"
	libraryDir   = "library"
	historyFile  = "history"
)

var (
	envConfigDir   = strings.ToUpper(appName) + "_CONFIG_DIR"
	envLibraryDirs = strings.ToUpper(appName) + "_LIBRARY_DIRS"
)

// appFs is the filesystem every command reads and writes through.
var appFs afero.Fs = afero.NewOsFs()

// Settings is the content of config.toml.
type Settings struct {
	Log   LogSettings    `toml:"log"`
	Check CheckSettings  `toml:"check"`
	Scope map[string]any `toml:"scope"`
}

type LogSettings struct {
	Level   string `toml:"level"`
	NoColor bool   `toml:"no_color"`
}

type CheckSettings struct {
	LibraryDirs  []string `toml:"library_dirs"`
	ShowBindings bool     `toml:"show_bindings"`
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $CONTRACTS_CONFIG_DIR > $XDG_CONFIG_HOME/contracts > ~/.config/contracts
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadSettings reads configDir/config.toml. A missing file yields the zero
// Settings; unknown keys are logged and ignored.
func loadSettings(fsys afero.Fs, configDir string) (Settings, error) {
	var s Settings
	path := filepath.Join(configDir, settingsFile)
	data, err := afero.ReadFile(fsys, path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return s, fmt.Errorf("phase=config file=%s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		if len(key) > 0 && key[0] == "scope" {
			continue
		}
		log.Warn().Str("file", path).Str("key", key.String()).Msg("unknown config key ignored")
	}
	for name, v := range s.Scope {
		if contract.KindOf(v) == contract.KindInvalid {
			return s, fmt.Errorf("phase=config file=%s: scope value %s has unsupported type %T", path, name, v)
		}
	}
	return s, nil
}

// resolveLibraryDirs returns all directories to load named specs from.
// Order: configDir/library → config.toml library_dirs → $CONTRACTS_LIBRARY_DIRS → flagDirs
func resolveLibraryDirs(configDir string, settingsDirs, flagDirs []string) []string {
	dirs := []string{filepath.Join(configDir, libraryDir)}
	for _, d := range settingsDirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(configDir, d)
		}
		dirs = append(dirs, d)
	}
	dirs = append(dirs, splitColon(os.Getenv(envLibraryDirs))...)
	dirs = append(dirs, flagDirs...)
	return dirs
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
