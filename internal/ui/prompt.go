package ui

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	"go.trai.ch/zerr"

	"pahkat/pkg/outline"
)

// ErrNoChoices is returned when a prompt has nothing to choose from.
var ErrNoChoices = zerr.New("nothing to choose from")

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	label := prompt
	if defaultYes {
		label += " [Y/n]"
	} else {
		label += " [y/N]"
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   "",
	}

	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, err
		}
		return defaultYes, nil
	}

	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes, nil
	}

	return result == "y" || result == "yes", nil
}

// packageChoice is the template view of an outline package.
type packageChoice struct {
	Name        string
	ID          string
	Version     string
	Repository  string
	Group       string
	Description string
}

// SelectPackage prompts the user to pick one of several packages, for
// example when an ID exists in more than one repository.
func SelectPackage(pkgs []outline.Package, prompt, lang string) (outline.Package, error) {
	if len(pkgs) == 0 {
		return outline.Package{}, ErrNoChoices
	}

	if len(pkgs) == 1 {
		return pkgs[0], nil
	}

	choices := make([]packageChoice, len(pkgs))
	for i, p := range pkgs {
		choices[i] = packageChoice{
			Name:        p.Descriptor.NativeName(lang),
			ID:          p.Descriptor.ID,
			Version:     p.Release.NativeVersion(),
			Repository:  p.Key.RepositoryURL,
			Group:       p.Group.Value,
			Description: p.Descriptor.NativeDescription(lang),
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Name | cyan }} {{ .Version | green }} [{{ .Repository | magenta }}]",
		Inactive: "  {{ .Name }} {{ .Version | faint }} [{{ .Repository | faint }}]",
		Selected: "✓ {{ .Name | cyan }} {{ .Version | green }} [{{ .Repository | magenta }}]",
		Details: `
--------- Package ----------
{{ "ID:" | faint }}	{{ .ID }}
{{ "Group:" | faint }}	{{ .Group }}
{{ "Description:" | faint }}	{{ .Description }}`,
	}

	searcher := func(input string, index int) bool {
		c := choices[index]
		input = strings.ToLower(input)
		return strings.Contains(strings.ToLower(c.Name), input) || strings.Contains(c.ID, input)
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     choices,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := p.Run()
	if err != nil {
		return outline.Package{}, err
	}

	return pkgs[index], nil
}

// Input prompts the user for text input.
func Input(prompt string, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:   prompt,
		Default: defaultValue,
	}

	result, err := p.Run()
	if err != nil {
		return defaultValue, err
	}

	return result, nil
}
