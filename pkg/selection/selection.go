// Package selection tracks which packages the user has marked for install or
// uninstall. A Selection is an immutable map keyed by repo.PackageKey; every
// operation returns a new value and leaves its input untouched.
package selection

import (
	"sort"

	"pahkat/pkg/repo"
)

// Action is what happens to a selected package on commit.
type Action string

const (
	ActionInstall   Action = "install"
	ActionUninstall Action = "uninstall"
)

// SelectedPackage records the decision taken for one package.
type SelectedPackage struct {
	Key        repo.PackageKey    `json:"key"`
	Descriptor repo.Descriptor    `json:"descriptor"`
	Action     Action             `json:"action"`
	Target     repo.InstallTarget `json:"target"`
}

// IsInstalling returns true for install actions.
func (p SelectedPackage) IsInstalling() bool {
	return p.Action == ActionInstall
}

// IsUninstalling returns true for uninstall actions.
func (p SelectedPackage) IsUninstalling() bool {
	return p.Action == ActionUninstall
}

// State is the selection state of a single package.
type State int

const (
	Unselected State = iota
	SelectedInstall
	SelectedUninstall
)

func (s State) String() string {
	switch s {
	case SelectedInstall:
		return "selected-install"
	case SelectedUninstall:
		return "selected-uninstall"
	default:
		return "unselected"
	}
}

// Selection is the set of selected packages. The zero value is empty and ready to use.
type Selection struct {
	m map[repo.PackageKey]SelectedPackage
}

// New returns a selection holding the given packages. Later entries for the
// same key win.
func New(pkgs ...SelectedPackage) Selection {
	if len(pkgs) == 0 {
		return Selection{}
	}
	m := make(map[repo.PackageKey]SelectedPackage, len(pkgs))
	for _, p := range pkgs {
		m[p.Key] = p
	}
	return Selection{m: m}
}

func (s Selection) clone(extra int) map[repo.PackageKey]SelectedPackage {
	m := make(map[repo.PackageKey]SelectedPackage, len(s.m)+extra)
	for k, v := range s.m {
		m[k] = v
	}
	return m
}

// With returns a copy with p recorded under p.Key, replacing any earlier entry.
func (s Selection) With(p SelectedPackage) Selection {
	m := s.clone(1)
	m[p.Key] = p
	return Selection{m: m}
}

// Without returns a copy with the given keys removed.
func (s Selection) Without(keys ...repo.PackageKey) Selection {
	if !s.hasAny(keys) {
		return s
	}
	m := s.clone(0)
	for _, k := range keys {
		delete(m, k)
	}
	return Selection{m: m}
}

func (s Selection) hasAny(keys []repo.PackageKey) bool {
	for _, k := range keys {
		if _, ok := s.m[k]; ok {
			return true
		}
	}
	return false
}

// Get returns the entry for a key.
func (s Selection) Get(key repo.PackageKey) (SelectedPackage, bool) {
	p, ok := s.m[key]
	return p, ok
}

// Has reports whether the key is selected.
func (s Selection) Has(key repo.PackageKey) bool {
	_, ok := s.m[key]
	return ok
}

// StateOf returns the selection state of a key.
func (s Selection) StateOf(key repo.PackageKey) State {
	p, ok := s.m[key]
	switch {
	case !ok:
		return Unselected
	case p.IsUninstalling():
		return SelectedUninstall
	default:
		return SelectedInstall
	}
}

// Len returns the number of selected packages.
func (s Selection) Len() int {
	return len(s.m)
}

// Keys returns the selected keys ordered by their canonical string form.
func (s Selection) Keys() []repo.PackageKey {
	keys := make([]repo.PackageKey, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Values returns the selected packages ordered by key.
func (s Selection) Values() []SelectedPackage {
	keys := s.Keys()
	out := make([]SelectedPackage, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.m[k])
	}
	return out
}

// Equal reports whether both selections hold the same entries.
func (s Selection) Equal(other Selection) bool {
	if len(s.m) != len(other.m) {
		return false
	}
	for k, v := range s.m {
		o, ok := other.m[k]
		if !ok || o.Action != v.Action || o.Target != v.Target || o.Descriptor.ID != v.Descriptor.ID {
			return false
		}
	}
	return true
}
