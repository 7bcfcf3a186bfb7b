package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Interface.Filter != "category" {
		t.Errorf("expected default filter 'category', got '%s'", cfg.Interface.Filter)
	}

	if cfg.Updates.CheckInterval != "daily" {
		t.Errorf("expected default check interval 'daily', got '%s'", cfg.Updates.CheckInterval)
	}

	if !cfg.Output.Color {
		t.Error("expected Color to be true by default")
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level 'warn', got '%s'", cfg.Log.Level)
	}

	if cfg.Metrics.Enabled {
		t.Error("expected metrics to be disabled by default")
	}

	if cfg.Filters == nil || cfg.Aliases == nil {
		t.Error("expected Filters and Aliases to be initialized")
	}
}

func TestResolveAlias(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]string{
			"sme": "https://pahkat.example/main/packages/speller-sme",
		},
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"sme", "https://pahkat.example/main/packages/speller-sme"},
		{"speller-smj", "speller-smj"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := cfg.ResolveAlias(tt.input)
			if result != tt.expected {
				t.Errorf("ResolveAlias(%s) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestResolveAliases(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]string{
			"sme": "speller-sme",
		},
	}

	input := []string{"sme", "kbd-sme", "manager"}
	expected := []string{"speller-sme", "kbd-sme", "manager"}

	result := cfg.ResolveAliases(input)

	if len(result) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(result))
	}

	for i, r := range result {
		if r != expected[i] {
			t.Errorf("result[%d] = %s, want %s", i, r, expected[i])
		}
	}
}

func TestFilterFor(t *testing.T) {
	cfg := Default()
	cfg.Filters["https://pahkat.example/main"] = "language"
	cfg.Filters["https://pahkat.example/broken"] = "colour"

	tests := []struct {
		url      string
		expected outline.Filter
	}{
		{"https://pahkat.example/main", outline.FilterLanguage},
		{"https://pahkat.example/main/", outline.FilterLanguage},
		{"https://pahkat.example/broken", outline.FilterCategory},
		{"https://pahkat.example/other", outline.FilterCategory},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := cfg.FilterFor(tt.url); got != tt.expected {
				t.Errorf("FilterFor(%s) = %s, want %s", tt.url, got, tt.expected)
			}
		})
	}

	cfg.Interface.Filter = "language"
	if got := cfg.FilterFor("https://pahkat.example/other"); got != outline.FilterLanguage {
		t.Errorf("expected interface default to apply, got %s", got)
	}
}

func TestRepositoryFilters(t *testing.T) {
	cfg := Default()
	cfg.Repositories = []repo.Record{
		{URL: "https://pahkat.example/main/"},
		{URL: "https://pahkat.example/tools"},
	}
	cfg.Filters["https://pahkat.example/main"] = "language"

	filters := cfg.RepositoryFilters()

	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(filters))
	}
	if filters["https://pahkat.example/main"] != outline.FilterLanguage {
		t.Errorf("expected language filter for main, got %s", filters["https://pahkat.example/main"])
	}
	if filters["https://pahkat.example/tools"] != outline.FilterCategory {
		t.Errorf("expected category filter for tools, got %s", filters["https://pahkat.example/tools"])
	}
}

func TestDisplayLanguage(t *testing.T) {
	cfg := Default()

	t.Setenv("LANG", "nb_NO.UTF-8")
	if got := cfg.DisplayLanguage(); got != "nb-NO" {
		t.Errorf("expected 'nb-NO' from LANG, got '%s'", got)
	}

	t.Setenv("LANG", "C")
	if got := cfg.DisplayLanguage(); got != "en" {
		t.Errorf("expected 'en' for C locale, got '%s'", got)
	}

	cfg.Interface.Language = "se"
	if got := cfg.DisplayLanguage(); got != "se" {
		t.Errorf("expected configured 'se', got '%s'", got)
	}
}

func TestShouldUseColor(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Color: true},
	}

	// Should return true when Color is true and NO_COLOR is not set
	t.Setenv("NO_COLOR", "")
	if !cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return true")
	}

	// Should return false when NO_COLOR is set
	t.Setenv("NO_COLOR", "1")
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when NO_COLOR is set")
	}

	t.Setenv("NO_COLOR", "")
	cfg.Output.Color = false
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when Color is false")
	}
}

func TestUpdatesInterval(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", 0},
		{"never", 0},
		{"daily", 24 * time.Hour},
		{"Weekly", 7 * 24 * time.Hour},
		{"fortnightly", 14 * 24 * time.Hour},
		{"monthly", 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := UpdatesConfig{CheckInterval: tt.value}.Interval()
			if err != nil {
				t.Fatalf("Interval() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Interval() = %v, want %v", got, tt.expected)
			}
		})
	}

	_, err := UpdatesConfig{CheckInterval: "hourly"}.Interval()
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestUpdatesDueAndAdvance(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	u := UpdatesConfig{CheckInterval: "daily"}

	// zero NextCheck is always due
	if !u.Due(now) {
		t.Error("expected refresh to be due before the first check")
	}

	u.Advance(now)
	if !u.NextCheck.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("unexpected NextCheck: %v", u.NextCheck)
	}
	if u.Due(now.Add(time.Hour)) {
		t.Error("expected refresh not to be due within the interval")
	}
	if !u.Due(now.Add(24 * time.Hour)) {
		t.Error("expected refresh to be due once the interval elapsed")
	}

	never := UpdatesConfig{CheckInterval: "never"}
	if never.Due(now) {
		t.Error("expected 'never' to never be due")
	}
	never.Advance(now)
	if !never.NextCheck.IsZero() {
		t.Error("expected Advance to clear NextCheck for 'never'")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Aliases["sme"] = "speller-sme"
	cfg.Filters["https://pahkat.example/main"] = "language"
	cfg.Repositories = []repo.Record{
		{URL: "https://pahkat.example/main", Channel: "nightly", Index: "/srv/main/index.toml"},
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.ResolveAlias("sme") != "speller-sme" {
		t.Error("loaded config doesn't have expected alias")
	}
	if loaded.FilterFor("https://pahkat.example/main") != outline.FilterLanguage {
		t.Error("loaded config doesn't have expected filter")
	}
	if len(loaded.Repositories) != 1 || loaded.Repositories[0].Channel != "nightly" {
		t.Errorf("unexpected repositories: %+v", loaded.Repositories)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[interface]
language = "se"

[[repositories]]
url = "https://pahkat.example/main"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Interface.Language != "se" {
		t.Errorf("expected language 'se', got '%s'", cfg.Interface.Language)
	}
	// unspecified fields keep their defaults
	if cfg.Updates.CheckInterval != "daily" {
		t.Errorf("expected default check interval, got '%s'", cfg.Updates.CheckInterval)
	}
	if cfg.Filters == nil || cfg.Aliases == nil {
		t.Error("expected maps to be initialized")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[interface\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	// Loading non-existent file should return default config
	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() should not error for non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadFrom() should return default config for non-existent file")
	}

	if !cfg.Output.Color {
		t.Error("expected default Color to be true")
	}
}
