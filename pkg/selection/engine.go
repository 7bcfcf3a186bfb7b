package selection

import (
	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

// Toggle flips the selection of a package. An unselected package becomes an
// uninstall when it is up to date and an install otherwise; a selected
// package becomes unselected.
func Toggle(sel Selection, p outline.Package) Selection {
	if sel.Has(p.Key) {
		return sel.Without(p.Key)
	}

	action := ActionInstall
	if p.Status.Status == repo.StatusUpToDate {
		action = ActionUninstall
	}

	target := p.Status.Target
	if target == "" {
		target = repo.TargetUser
	}

	return sel.With(SelectedPackage{
		Key:        p.Key,
		Descriptor: p.Descriptor,
		Action:     action,
		Target:     target,
	})
}

// Set forces the selection of a package, ignoring its status. A nil choice
// clears it. The stored entry always carries the key and descriptor of p.
func Set(sel Selection, p outline.Package, choice *SelectedPackage) Selection {
	if choice == nil {
		return sel.Without(p.Key)
	}

	sp := *choice
	sp.Key = p.Key
	sp.Descriptor = p.Descriptor
	if sp.Target == "" {
		sp.Target = repo.TargetUser
	}
	return sel.With(sp)
}

// ToggleGroup toggles every package of a group. When some members are
// already selected only those are toggled, which deselects them; otherwise
// every member is toggled on.
func ToggleGroup(sel Selection, pkgs []outline.Package) Selection {
	var selected []repo.PackageKey
	for _, p := range pkgs {
		if sel.Has(p.Key) {
			selected = append(selected, p.Key)
		}
	}

	if len(selected) > 0 {
		return sel.Without(selected...)
	}

	for _, p := range pkgs {
		if !sel.Has(p.Key) {
			sel = Toggle(sel, p)
		}
	}
	return sel
}

// Reconcile re-applies every recorded selection to the package projected
// from the same descriptor in the same repository. Entries whose package is
// no longer in the catalog stay in the selection and are returned as orphans
// in key order.
func Reconcile(sel Selection, catalog *outline.Catalog) (Selection, []repo.PackageKey) {
	next := Selection{}
	var orphans []repo.PackageKey

	for _, sp := range sel.Values() {
		p, ok := catalog.Lookup(sp.Key.RepositoryURL, sp.Key.ID)
		if !ok {
			next = next.With(sp)
			orphans = append(orphans, sp.Key)
			continue
		}
		choice := sp
		next = Set(next, p, &choice)
	}

	return next, orphans
}

// Prune removes the given keys, typically the orphans of a previous Reconcile.
func Prune(sel Selection, keys []repo.PackageKey) Selection {
	return sel.Without(keys...)
}
