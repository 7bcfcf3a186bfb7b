// Package outline projects loaded repositories into the grouped view shown to
// the user: repository, then category or language group, then packages.
//
// Projections are immutable and rebuilt wholesale whenever the catalog or a
// filter changes. Selection state is never stored here; it lives in a
// selection.Selection keyed by repo.PackageKey.
package outline

import (
	"sort"

	"pahkat/pkg/repo"
)

// RepositoryID identifies a repository projection by URL and filter.
type RepositoryID struct {
	URL    string
	Filter Filter
}

// Repository pairs a loaded repository snapshot with the filter applied to it.
type Repository struct {
	Filter Filter
	Repo   *repo.LoadedRepository
}

// ID returns the identity of the projection.
func (r Repository) ID() RepositoryID {
	return RepositoryID{URL: r.Repo.URL(), Filter: r.Filter}
}

// Group is one category or language bucket of a repository.
type Group struct {
	ID    string
	Value string
	Repo  RepositoryID
}

// Package is a descriptor resolved against the current platform.
type Package struct {
	Key        repo.PackageKey
	Descriptor repo.Descriptor
	Release    *repo.Release
	Target     *repo.Target
	Status     repo.PackageStatus
	Group      Group
}

// Outline is the grouped projection of a single repository.
type Outline struct {
	repo     Repository
	groups   []Group
	packages map[string][]Package
	byID     map[string]Package
	keys     []repo.PackageKey
}

// Repository returns the projected repository.
func (o *Outline) Repository() Repository {
	return o.repo
}

// Groups returns the groups ordered by group ID.
func (o *Outline) Groups() []Group {
	out := make([]Group, len(o.groups))
	copy(out, o.groups)
	return out
}

// Packages returns the packages of a group ordered by descriptor ID.
func (o *Outline) Packages(g Group) []Package {
	pkgs := o.packages[g.ID]
	out := make([]Package, len(pkgs))
	copy(out, pkgs)
	return out
}

// Find returns the package projected from the descriptor with the given ID.
// In language mode a package may sit in several groups; the first group wins.
func (o *Outline) Find(id string) (Package, bool) {
	p, ok := o.byID[id]
	return p, ok
}

// Keys returns the distinct package keys in the outline, in group order.
func (o *Outline) Keys() []repo.PackageKey {
	out := make([]repo.PackageKey, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of distinct packages.
func (o *Outline) Len() int {
	return len(o.keys)
}

func newOutline(r Repository) *Outline {
	return &Outline{
		repo:     r,
		packages: make(map[string][]Package),
		byID:     make(map[string]Package),
	}
}

// add inserts p into group g unless the group already holds the descriptor.
func (o *Outline) add(g Group, p Package) {
	p.Group = g

	members, exists := o.packages[g.ID]
	if !exists {
		o.groups = append(o.groups, g)
	}
	for _, m := range members {
		if m.Descriptor.ID == p.Descriptor.ID {
			return
		}
	}
	o.packages[g.ID] = append(members, p)
}

// seal sorts groups and packages and indexes the result.
func (o *Outline) seal() {
	sort.Slice(o.groups, func(i, j int) bool { return o.groups[i].ID < o.groups[j].ID })

	for _, g := range o.groups {
		pkgs := o.packages[g.ID]
		sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Descriptor.ID < pkgs[j].Descriptor.ID })

		for _, p := range pkgs {
			if _, seen := o.byID[p.Descriptor.ID]; seen {
				continue
			}
			o.byID[p.Descriptor.ID] = p
			o.keys = append(o.keys, p.Key)
		}
	}
}
