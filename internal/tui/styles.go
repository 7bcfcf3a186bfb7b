// Package tui provides the interactive package browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pahkat/pkg/repo"
)

// palette holds the browser colors. Adaptive colors keep the tree readable
// on light terminals.
var palette = struct {
	accent, link, ok, warn, bad, dim, fg, bar, bg lipgloss.TerminalColor
}{
	accent: lipgloss.AdaptiveColor{Light: "#B4234A", Dark: "#E8547A"},
	link:   lipgloss.AdaptiveColor{Light: "#1F6FA8", Dark: "#5DB2E8"},
	ok:     lipgloss.AdaptiveColor{Light: "#237A3B", Dark: "#4FC46E"},
	warn:   lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#E3B341"},
	bad:    lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#F0625A"},
	dim:    lipgloss.AdaptiveColor{Light: "#7A7F87", Dark: "#8B929C"},
	fg:     lipgloss.AdaptiveColor{Light: "#1C2128", Dark: "#E6EDF3"},
	bar:    lipgloss.AdaptiveColor{Light: "#E4E7EB", Dark: "#2D333B"},
	bg:     lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#161B22"},
}

// Styles groups the lipgloss styles of the browser.
type Styles struct {
	Header    lipgloss.Style
	TabBar    lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	Footer    lipgloss.Style
	StatusBar lipgloss.Style
	Spinner   lipgloss.Style

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Description lipgloss.Style
	Cursor      lipgloss.Style

	// Catalog tree
	Repository     lipgloss.Style
	Group          lipgloss.Style
	PackageName    lipgloss.Style
	PackageVersion lipgloss.Style
	PackageDesc    lipgloss.Style
	MarkInstall    lipgloss.Style
	MarkUninstall  lipgloss.Style
	Orphan         lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	InputPrompt lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	HelpSep  lipgloss.Style

	Dialog         lipgloss.Style
	DialogTitle    lipgloss.Style
	Button         lipgloss.Style
	ButtonMuted    lipgloss.Style
	DialogBackdrop lipgloss.TerminalColor
}

// DefaultStyles returns the browser styles.
func DefaultStyles() *Styles {
	bold := lipgloss.NewStyle().Bold(true)
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	bar := lipgloss.NewStyle().Background(palette.bar).Padding(0, 1)

	return &Styles{
		Header:    bar.Foreground(palette.fg).Bold(true),
		TabBar:    bar,
		TabActive: bold.Foreground(palette.accent).Underline(true).Padding(0, 2),
		TabIdle:   fg(palette.dim).Padding(0, 2),
		Footer:    bar.Foreground(palette.dim),
		StatusBar: lipgloss.NewStyle().Padding(0, 1),
		Spinner:   fg(palette.accent),

		Title:       bold.Foreground(palette.fg).MarginBottom(1),
		Subtitle:    bold.Foreground(palette.link),
		Description: fg(palette.dim),
		Cursor:      bold.Foreground(palette.accent),

		Repository:     bold.Foreground(palette.link),
		Group:          bold.Foreground(palette.accent),
		PackageName:    fg(palette.fg),
		PackageVersion: fg(palette.ok),
		PackageDesc:    fg(palette.dim).Width(60),
		MarkInstall:    bold.Foreground(palette.ok),
		MarkUninstall:  bold.Foreground(palette.bad),
		Orphan:         fg(palette.warn).Italic(true),

		Success: bold.Foreground(palette.ok),
		Warning: bold.Foreground(palette.warn),
		Error:   bold.Foreground(palette.bad),

		InputPrompt: bold.Foreground(palette.accent),

		HelpKey:  bold.Foreground(palette.link),
		HelpDesc: fg(palette.dim),
		HelpSep:  fg(palette.dim).SetString(" - "),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.accent).
			Padding(1, 2).
			Width(60),
		DialogTitle:    bold.Foreground(palette.fg).MarginBottom(1),
		Button:         lipgloss.NewStyle().Foreground(palette.bg).Background(palette.accent).Padding(0, 2).MarginRight(1),
		ButtonMuted:    fg(palette.dim),
		DialogBackdrop: palette.bg,
	}
}

// StatusBadge renders the installation status of a package, or nothing for
// packages that are not installed.
func StatusBadge(status repo.Status) string {
	var (
		text string
		bg   lipgloss.TerminalColor
	)
	switch status {
	case repo.StatusUpToDate:
		text, bg = "installed", palette.ok
	case repo.StatusRequiresUpdate:
		text, bg = "update", palette.warn
	case repo.StatusError:
		text, bg = "error", palette.bad
	default:
		return ""
	}
	return lipgloss.NewStyle().Foreground(palette.bg).Background(bg).Padding(0, 1).Render(text)
}
