package outline

import (
	"sort"

	"pahkat/pkg/repo"
)

// Catalog is the projection of every loaded repository, ordered by URL.
type Catalog struct {
	outlines []*Outline
	byURL    map[string]*Outline
	byKey    map[repo.PackageKey]Package
}

// BuildAll projects every repository using the filter recorded for its URL,
// defaulting to FilterCategory.
func BuildAll(repos []*repo.LoadedRepository, filters map[string]Filter, opts Options) *Catalog {
	c := &Catalog{
		byURL: make(map[string]*Outline, len(repos)),
		byKey: make(map[repo.PackageKey]Package),
	}

	for _, r := range repos {
		if r == nil {
			continue
		}
		if _, dup := c.byURL[r.URL()]; dup {
			continue
		}
		filter, ok := filters[r.URL()]
		if !ok {
			filter = FilterCategory
		}

		o := Build(Repository{Filter: filter, Repo: r}, opts)
		c.outlines = append(c.outlines, o)
		c.byURL[r.URL()] = o
		for _, key := range o.keys {
			c.byKey[key] = o.byID[key.ID]
		}
	}

	sort.SliceStable(c.outlines, func(i, j int) bool {
		return c.outlines[i].repo.Repo.URL() < c.outlines[j].repo.Repo.URL()
	})

	return c
}

// Outlines returns the repository projections ordered by URL.
func (c *Catalog) Outlines() []*Outline {
	if c == nil {
		return nil
	}
	out := make([]*Outline, len(c.outlines))
	copy(out, c.outlines)
	return out
}

// Outline returns the projection of the repository with the given URL.
func (c *Catalog) Outline(url string) (*Outline, bool) {
	if c == nil {
		return nil, false
	}
	o, ok := c.byURL[url]
	return o, ok
}

// Package returns the projected package for a key.
func (c *Catalog) Package(key repo.PackageKey) (Package, bool) {
	if c == nil {
		return Package{}, false
	}
	p, ok := c.byKey[key]
	return p, ok
}

// Lookup finds a package by descriptor ID within the repository with the given URL.
func (c *Catalog) Lookup(url, id string) (Package, bool) {
	o, ok := c.Outline(url)
	if !ok {
		return Package{}, false
	}
	return o.Find(id)
}

// Group returns the packages of the group with the given ID in a repository.
func (c *Catalog) Group(url, groupID string) (Group, []Package, bool) {
	o, ok := c.Outline(url)
	if !ok {
		return Group{}, nil, false
	}
	for _, g := range o.groups {
		if g.ID == groupID {
			return g, o.Packages(g), true
		}
	}
	return Group{}, nil, false
}

// Len returns the number of distinct packages across all repositories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byKey)
}
