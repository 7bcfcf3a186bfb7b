package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

func init() {
	color.NoColor = true
}

const base = "https://pahkat.example/main"

func testCatalog() *outline.Catalog {
	r := repo.NewLoadedRepository(repo.Meta{Base: base, Name: map[string]string{"en": "Main"}}, "", []repo.Descriptor{{
		ID:   "speller-sme",
		Name: map[string]string{"en": "Northern Sámi speller"},
		Tags: []string{"cat:spellers"},
		Release: []repo.Release{{
			Version: "1.0",
			Target:  []repo.Target{{Platform: "macos"}},
		}},
	}})
	return outline.BuildAll([]*repo.LoadedRepository{r}, nil, outline.Options{Platform: "macos"})
}

func TestPrintCatalog(t *testing.T) {
	c := testCatalog()
	p, _ := c.Lookup(base, "speller-sme")
	sel := selection.Toggle(selection.Selection{}, p)

	var buf bytes.Buffer
	PrintCatalog(&buf, c, sel, "en")
	out := buf.String()

	for _, want := range []string{"Main (category)", "Spellers [1]", "+ Northern Sámi speller", "not installed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintCatalog(&buf, nil, sel, "en")
	if !strings.Contains(buf.String(), "No repositories loaded") {
		t.Errorf("unexpected output for empty catalog: %s", buf.String())
	}
}

func TestPrintPlan(t *testing.T) {
	c := testCatalog()
	p, _ := c.Lookup(base, "speller-sme")
	sel := selection.Toggle(selection.Selection{}, p)

	var buf bytes.Buffer
	PrintPlan(&buf, sel.Values(), "en")
	out := buf.String()

	if !strings.Contains(out, "ACTION") || !strings.Contains(out, "install") {
		t.Errorf("unexpected plan output:\n%s", out)
	}
	if !strings.Contains(out, base+"/packages/speller-sme") {
		t.Errorf("plan should contain the package key:\n%s", out)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		status   repo.PackageStatus
		expected string
	}{
		{repo.PackageStatus{Status: repo.StatusUpToDate, Target: repo.TargetSystem}, "installed (system)"},
		{repo.PackageStatus{Status: repo.StatusRequiresUpdate}, "update available"},
		{repo.PackageStatus{Status: repo.StatusError}, "error"},
		{repo.DefaultStatus, "not installed"},
	}

	for _, tt := range tests {
		if got := StatusText(tt.status); got != tt.expected {
			t.Errorf("StatusText(%v) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		512:         "512 B",
		2048:        "2.0 KiB",
		5 * 1 << 20: "5.0 MiB",
	}
	for n, want := range tests {
		if got := formatSize(n); got != want {
			t.Errorf("formatSize(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("davvisámegiella", 8); got != "davvi..." {
		t.Errorf("unexpected truncation: %s", got)
	}
	if got := truncate("short", 8); got != "short" {
		t.Errorf("unexpected truncation: %s", got)
	}
}
