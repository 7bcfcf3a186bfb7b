package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pahkat/pkg/selection"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusCommitted, "committed"},
		{StatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if string(tt.status) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.status)
			}
		})
	}
}

func TestNewEntry(t *testing.T) {
	pkgs := []selection.SelectedPackage{
		pkg("speller-sme", selection.ActionInstall),
		pkg("kbd-sme", selection.ActionUninstall),
	}
	entry := NewEntry(pkgs)

	if entry.ID == "" {
		t.Error("entry ID should not be empty")
	}
	if entry.Timestamp.IsZero() {
		t.Error("entry timestamp should be set")
	}
	if entry.Status != StatusCommitted {
		t.Errorf("expected status committed, got %s", entry.Status)
	}

	pkgs[0].Action = selection.ActionUninstall
	if entry.Packages[0].Action != selection.ActionInstall {
		t.Error("NewEntry() should copy the package list")
	}
}

func TestEntryMarkFailed(t *testing.T) {
	entry := NewEntry([]selection.SelectedPackage{pkg("vim", selection.ActionInstall)})
	entry.MarkFailed(errors.New("boom"))

	if entry.Status != StatusFailed {
		t.Error("MarkFailed() should set status to failed")
	}
	if entry.Error != "boom" {
		t.Errorf("expected error 'boom', got '%s'", entry.Error)
	}
	if entry.CanRevert() {
		t.Error("failed entries cannot be reverted")
	}
}

func TestEntryCounts(t *testing.T) {
	entry := NewEntry([]selection.SelectedPackage{
		pkg("a", selection.ActionInstall),
		pkg("b", selection.ActionInstall),
		pkg("c", selection.ActionUninstall),
	})

	installs, uninstalls := entry.Counts()
	if installs != 2 || uninstalls != 1 {
		t.Errorf("expected 2 installs and 1 uninstall, got %d and %d", installs, uninstalls)
	}
}

func TestEntryReverse(t *testing.T) {
	entry := NewEntry([]selection.SelectedPackage{
		pkg("a", selection.ActionInstall),
		pkg("b", selection.ActionUninstall),
	})

	reversed := entry.Reverse()
	if reversed.Len() != 2 {
		t.Fatalf("expected 2 packages, got %d", reversed.Len())
	}

	a, _ := reversed.Get(entry.Packages[0].Key)
	b, _ := reversed.Get(entry.Packages[1].Key)
	if a.Action != selection.ActionUninstall {
		t.Errorf("expected install to reverse to uninstall, got %s", a.Action)
	}
	if b.Action != selection.ActionInstall {
		t.Errorf("expected uninstall to reverse to install, got %s", b.Action)
	}
	if entry.Packages[0].Action != selection.ActionInstall {
		t.Error("Reverse() must not modify the entry")
	}
}

func TestEntrySummary(t *testing.T) {
	entry := NewEntry([]selection.SelectedPackage{
		pkg("speller-sme", selection.ActionInstall),
		pkg("kbd-sme", selection.ActionUninstall),
	})
	entry.Timestamp = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	summary := entry.Summary()
	want := "2024-05-01 12:30:00 +1 -1 speller-sme (+1 more) [committed]"
	if summary != want {
		t.Errorf("Summary() = %q, want %q", summary, want)
	}

	empty := NewEntry(nil)
	if !strings.HasSuffix(empty.Summary(), "+0 -0 [committed]") {
		t.Errorf("unexpected summary for empty entry: %q", empty.Summary())
	}
}
