package selection

import "fmt"

// Label is the state of the primary action button.
type Label struct {
	Enabled       bool
	Text          string
	Count         int
	HasInstalls   bool
	HasUninstalls bool
}

// PrimaryAction derives the primary action label from a selection.
func PrimaryAction(sel Selection) Label {
	l := Label{Count: sel.Len()}
	for _, p := range sel.m {
		if p.IsInstalling() {
			l.HasInstalls = true
		}
		if p.IsUninstalling() {
			l.HasUninstalls = true
		}
	}

	noun := "packages"
	if l.Count == 1 {
		noun = "package"
	}

	l.Enabled = true
	switch {
	case l.HasInstalls && l.HasUninstalls:
		l.Text = fmt.Sprintf("install & uninstall %d %s", l.Count, noun)
	case l.HasInstalls:
		l.Text = fmt.Sprintf("install %d %s", l.Count, noun)
	case l.HasUninstalls:
		l.Text = fmt.Sprintf("uninstall %d %s", l.Count, noun)
	default:
		l.Enabled = false
		l.Text = "no packages selected"
	}

	return l
}
