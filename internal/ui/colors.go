// Package ui provides terminal output helpers for pahkat.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"pahkat/pkg/repo"
	"pahkat/pkg/selection"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Header  = color.New(color.FgMagenta, color.Bold)
	Muted   = color.New(color.FgHiBlack)

	// Colors for specific elements
	PackageName     = color.New(color.FgWhite, color.Bold)
	PackageVersion  = color.New(color.FgGreen)
	RepositoryName  = color.New(color.FgCyan)
	GroupName       = color.New(color.FgMagenta)
	Installed       = color.New(color.FgGreen)
	UpdateAvailable = color.New(color.FgYellow)
	NotInstalled    = color.New(color.FgHiBlack)
	Failed          = color.New(color.FgRed)
	MarkInstall     = color.New(color.FgGreen, color.Bold)
	MarkUninstall   = color.New(color.FgRed, color.Bold)
)

// UseColors represents whether colors should be used.
var UseColors = true

// UseUnicode represents whether unicode symbols should be used.
var UseUnicode = true

// Symbols for status indicators
var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "→"
	SymbolInstall = "+"
	SymbolRemove  = "−"
)

// Init initializes the UI settings based on configuration.
func Init(useColors, useUnicode bool) {
	UseColors = useColors
	UseUnicode = useUnicode

	if !useColors || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	if !useUnicode {
		SymbolSuccess = "[OK]"
		SymbolError = "[ERROR]"
		SymbolWarning = "[WARN]"
		SymbolInfo = "->"
		SymbolRemove = "-"
	}
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...any) {
	Success.Printf(SymbolSuccess+" "+format+"\n", args...)
}

// ErrorMsg prints an error message.
func ErrorMsg(format string, args ...any) {
	Error.Printf(SymbolError+" "+format+"\n", args...)
}

// WarningMsg prints a warning message.
func WarningMsg(format string, args ...any) {
	Warning.Printf(SymbolWarning+" "+format+"\n", args...)
}

// InfoMsg prints an info message.
func InfoMsg(format string, args ...any) {
	Info.Printf(SymbolInfo+" "+format+"\n", args...)
}

// HeaderMsg prints a header message.
func HeaderMsg(format string, args ...any) {
	Header.Printf("\n"+format+"\n", args...)
}

// MutedMsg prints a muted (dim) message.
func MutedMsg(format string, args ...any) {
	Muted.Printf(format+"\n", args...)
}

// Println prints a plain line with formatting.
func Println(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// Bold returns a bold string.
func Bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// Cyan returns a cyan string.
func Cyan(s string) string {
	return color.CyanString(s)
}

// StatusText returns the colored display text of an installation status.
func StatusText(s repo.PackageStatus) string {
	switch s.Status {
	case repo.StatusUpToDate:
		return Installed.Sprint("installed (" + string(s.Target) + ")")
	case repo.StatusRequiresUpdate:
		return UpdateAvailable.Sprint("update available")
	case repo.StatusError:
		return Failed.Sprint("error")
	}
	return NotInstalled.Sprint("not installed")
}

// SelectionMark returns the marker shown next to a package for its selection state.
func SelectionMark(state selection.State) string {
	switch state {
	case selection.SelectedInstall:
		return MarkInstall.Sprint(SymbolInstall)
	case selection.SelectedUninstall:
		return MarkUninstall.Sprint(SymbolRemove)
	}
	return " "
}

// ActionText returns the colored verb of a selected action.
func ActionText(a selection.Action) string {
	if a == selection.ActionUninstall {
		return MarkUninstall.Sprint("uninstall")
	}
	return MarkInstall.Sprint("install")
}
