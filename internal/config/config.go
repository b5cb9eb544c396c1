package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JPM1118/assetpick/internal/media"
	"gopkg.in/yaml.v3"
)

// Surface names accepted by picker.surface.
const (
	SurfaceTUI      = "tui"
	SurfaceFuzzy    = "fuzzy"
	SurfaceExternal = "external"
)

// Config holds all configuration for assetpick.
type Config struct {
	Library LibraryConfig `yaml:"library"`
	Picker  PickerConfig  `yaml:"picker"`
}

// LibraryConfig controls which files are offered.
type LibraryConfig struct {
	Root           string   `yaml:"root"`
	Recursive      bool     `yaml:"recursive"`
	Extensions     []string `yaml:"extensions"`
	Watch          bool     `yaml:"watch"`
	RescanInterval Duration `yaml:"rescan_interval"`
}

// PickerConfig controls the picker surface.
type PickerConfig struct {
	Surface         string   `yaml:"surface"`
	Timeout         Duration `yaml:"timeout"`
	ExternalCommand string   `yaml:"external_command"`
	BellOnChange    bool     `yaml:"bell_on_change"`
}

// Duration wraps time.Duration for YAML unmarshalling from strings like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Library: LibraryConfig{
			Root:           ".",
			Extensions:     append([]string(nil), media.DefaultExtensions...),
			Watch:          true,
			RescanInterval: Duration{30 * time.Second},
		},
		Picker: PickerConfig{
			Surface:      SurfaceTUI,
			BellOnChange: true,
		},
	}
}

// Load reads the config file and merges with defaults.
// Missing file is not an error, defaults are used silently.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Defaults(), fmt.Errorf("config validation: %w", err)
	}

	// Drop extensions that can't match anything
	cfg.Library.Extensions = normalizeExtensions(cfg.Library.Extensions)
	if len(cfg.Library.Extensions) == 0 {
		cfg.Library.Extensions = append([]string(nil), media.DefaultExtensions...)
	}

	return cfg, nil
}

// Validate checks value ranges. It is also used after flags override the file.
func (c Config) Validate() error {
	ri := c.Library.RescanInterval.Duration
	if ri < 5*time.Second || ri > 10*time.Minute {
		return fmt.Errorf("rescan_interval must be between 5s and 10m, got %s", ri)
	}

	switch c.Picker.Surface {
	case SurfaceTUI, SurfaceFuzzy, SurfaceExternal:
	default:
		return fmt.Errorf("surface must be one of %s, %s, %s, got %q",
			SurfaceTUI, SurfaceFuzzy, SurfaceExternal, c.Picker.Surface)
	}

	to := c.Picker.Timeout.Duration
	if to != 0 && to < 5*time.Second {
		return fmt.Errorf("timeout must be 0 (none) or at least 5s, got %s", to)
	}

	return nil
}

func normalizeExtensions(exts []string) []string {
	valid := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if len(e) < 2 || !strings.HasPrefix(e, ".") || strings.ContainsAny(e, `/\ `) {
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		valid = append(valid, e)
	}
	return valid
}

// Path returns the default config file location.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "assetpick", "config.yml")
}
