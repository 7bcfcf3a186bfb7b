package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

// ErrInvalidInterval is returned for an unknown update check interval.
var ErrInvalidInterval = zerr.New("invalid update check interval")

// Config represents the complete pahkat configuration.
type Config struct {
	Repositories []repo.Record     `toml:"repositories"`
	Interface    InterfaceConfig   `toml:"interface"`
	Updates      UpdatesConfig     `toml:"updates"`
	Output       OutputConfig      `toml:"output"`
	Log          LogConfig         `toml:"log"`
	Metrics      MetricsConfig     `toml:"metrics"`
	Filters      map[string]string `toml:"filters"`
	Aliases      map[string]string `toml:"aliases"`
}

// InterfaceConfig contains display settings.
type InterfaceConfig struct {
	// Language is the display language for package names, e.g. "nb" or "se".
	// Empty means the LANG environment variable, then English.
	Language string `toml:"language"`

	// Filter is the default grouping for repositories without an entry in [filters].
	// Valid values: "category", "language"
	Filter string `toml:"filter"`

	// Platform overrides the detected platform ("macos", "windows", "linux").
	Platform string `toml:"platform"`

	// Arch overrides the detected architecture.
	Arch string `toml:"arch"`
}

// UpdatesConfig controls automatic repository refreshes.
type UpdatesConfig struct {
	// CheckInterval is one of "never", "daily", "weekly", "fortnightly", "monthly".
	CheckInterval string `toml:"check_interval"`

	// NextCheck is when the next automatic refresh is due.
	NextCheck time.Time `toml:"next_check"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// JSON switches the log output to JSON lines.
	JSON bool `toml:"json"`
}

// MetricsConfig controls Prometheus instrumentation of the state store.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`

	// Listen is the address the metrics endpoint is served on while the browser runs.
	Listen string `toml:"listen"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Interface: InterfaceConfig{
			Filter: string(outline.FilterCategory),
		},
		Updates: UpdatesConfig{
			CheckInterval: "daily",
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Metrics: MetricsConfig{
			Listen: "127.0.0.1:9464",
		},
		Filters: map[string]string{},
		Aliases: map[string]string{},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, zerr.With(fmt.Errorf("failed to parse config: %w", err), "path", path)
	}

	if cfg.Filters == nil {
		cfg.Filters = map[string]string{}
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// ResolveAlias returns the package key for an alias, or the original argument if no alias exists.
func (c *Config) ResolveAlias(name string) string {
	if alias, ok := c.Aliases[name]; ok {
		return alias
	}
	return name
}

// ResolveAliases resolves all aliases in a list of arguments.
func (c *Config) ResolveAliases(names []string) []string {
	resolved := make([]string, len(names))
	for i, name := range names {
		resolved[i] = c.ResolveAlias(name)
	}
	return resolved
}

// FilterFor returns the grouping configured for a repository.
// Unknown values fall back to the interface default and then to category.
func (c *Config) FilterFor(url string) outline.Filter {
	if name := c.Filters[strings.TrimRight(url, "/")]; name != "" {
		if f, err := outline.ParseFilter(name); err == nil {
			return f
		}
	}
	if f, err := outline.ParseFilter(c.Interface.Filter); err == nil {
		return f
	}
	return outline.FilterCategory
}

// RepositoryFilters returns the filter of every configured repository.
func (c *Config) RepositoryFilters() map[string]outline.Filter {
	filters := make(map[string]outline.Filter, len(c.Repositories))
	for _, r := range c.Repositories {
		filters[strings.TrimRight(r.URL, "/")] = c.FilterFor(r.URL)
	}
	return filters
}

// DisplayLanguage returns the configured language, falling back to LANG and then "en".
func (c *Config) DisplayLanguage() string {
	if c.Interface.Language != "" {
		return c.Interface.Language
	}
	if lang := os.Getenv("LANG"); lang != "" && lang != "C" && lang != "POSIX" {
		lang, _, _ = strings.Cut(lang, ".")
		return strings.ReplaceAll(lang, "_", "-")
	}
	return "en"
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}

// Interval returns the update check interval; zero means never.
func (u UpdatesConfig) Interval() (time.Duration, error) {
	switch strings.ToLower(u.CheckInterval) {
	case "", "never":
		return 0, nil
	case "daily":
		return 24 * time.Hour, nil
	case "weekly":
		return 7 * 24 * time.Hour, nil
	case "fortnightly":
		return 14 * 24 * time.Hour, nil
	case "monthly":
		return 30 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, u.CheckInterval)
}

// Due reports whether an automatic refresh should run at now.
func (u UpdatesConfig) Due(now time.Time) bool {
	interval, err := u.Interval()
	if err != nil || interval == 0 {
		return false
	}
	return !now.Before(u.NextCheck)
}

// Advance schedules the next check one interval after now.
func (u *UpdatesConfig) Advance(now time.Time) {
	interval, err := u.Interval()
	if err != nil || interval == 0 {
		u.NextCheck = time.Time{}
		return
	}
	u.NextCheck = now.Add(interval)
}
