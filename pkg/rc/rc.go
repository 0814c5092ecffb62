// Package rc reads the configuration file of formtk.
//
// The file is TOML. Its keys name command-line flags; a flag given on the
// command line takes precedence over the same key in the file.
package rc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the content of a configuration file.
type Config struct {
	// Path of the daemon socket.
	Sock string `toml:"sock"`
	// Path of the database file.
	DB string `toml:"db"`
	// Path of the debug log.
	Log string `toml:"log"`
	// Width used when rendering outside a terminal.
	Width int `toml:"width"`
	// One of "auto", "always" and "never".
	Color string `toml:"color"`
}

// DefaultPath returns the path of the configuration file used when no -rc
// flag is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "formtk", "rc.toml"), nil
}

// Load reads the configuration file at path. Keys unknown to Config are
// errors.
func Load(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault reads the configuration file at the default path. A missing
// file is an empty configuration.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return &Config{}, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

func (cfg *Config) check() error {
	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", cfg.Color)
	}
	if cfg.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", cfg.Width)
	}
	return nil
}

// Values returns the keys set in the configuration, mapped to their values
// formatted as flag values.
func (cfg *Config) Values() map[string]string {
	m := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	put("sock", cfg.Sock)
	put("db", cfg.DB)
	put("log", cfg.Log)
	put("color", cfg.Color)
	if cfg.Width > 0 {
		m["width"] = strconv.Itoa(cfg.Width)
	}
	return m
}

// Keys returns the sorted keys of m.
func Keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
