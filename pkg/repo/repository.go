package repo

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Meta describes a repository.
type Meta struct {
	Base        string            `json:"base" toml:"base" yaml:"base"`
	Name        map[string]string `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Description map[string]string `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	Channels    []string          `json:"channels,omitempty" toml:"channels" yaml:"channels,omitempty"`
}

// Record is a configured repository: where it lives and which channel to follow.
type Record struct {
	URL     string `json:"url" toml:"url"`
	Channel string `json:"channel,omitempty" toml:"channel"`
	// Index is the local path of the repository index maintained by the package client.
	Index string `json:"index,omitempty" toml:"index"`
}

// LoadedRepository is an immutable snapshot of a repository and its packages.
type LoadedRepository struct {
	meta        Meta
	channel     string
	descriptors map[string]Descriptor
	order       []string
	statuses    map[PackageKey]PackageStatus
	fingerprint uint64
}

// NewLoadedRepository creates a snapshot from repository metadata and its descriptors.
// Later descriptors with a duplicate ID replace earlier ones.
func NewLoadedRepository(meta Meta, channel string, descriptors []Descriptor) *LoadedRepository {
	meta.Base = strings.TrimRight(meta.Base, "/")

	r := &LoadedRepository{
		meta:        meta,
		channel:     channel,
		descriptors: make(map[string]Descriptor, len(descriptors)),
		statuses:    make(map[PackageKey]PackageStatus),
	}

	for _, d := range descriptors {
		if d.ID == "" {
			continue
		}
		r.descriptors[d.ID] = d
	}

	r.order = make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		r.order = append(r.order, id)
	}
	sort.Strings(r.order)

	r.fingerprint = r.computeFingerprint()
	return r
}

// WithStatuses returns a copy of the snapshot carrying the given installation statuses.
func (r *LoadedRepository) WithStatuses(statuses map[PackageKey]PackageStatus) *LoadedRepository {
	cp := *r
	cp.statuses = make(map[PackageKey]PackageStatus, len(statuses))
	for k, v := range statuses {
		cp.statuses[k] = v
	}
	cp.fingerprint = cp.computeFingerprint()
	return &cp
}

// Meta returns the repository metadata.
func (r *LoadedRepository) Meta() Meta {
	return r.meta
}

// URL returns the base URL identifying the repository.
func (r *LoadedRepository) URL() string {
	return r.meta.Base
}

// Channel returns the channel the snapshot was loaded for.
func (r *LoadedRepository) Channel() string {
	return r.channel
}

// NativeName returns the repository name in the given language, falling back to its URL.
func (r *LoadedRepository) NativeName(lang string) string {
	return localized(r.meta.Name, lang, r.meta.Base)
}

// Len returns the number of descriptors.
func (r *LoadedRepository) Len() int {
	return len(r.order)
}

// Descriptor returns the descriptor with the given ID.
func (r *LoadedRepository) Descriptor(id string) (Descriptor, bool) {
	d, ok := r.descriptors[id]
	return d, ok
}

// Descriptors returns all descriptors ordered by ID.
func (r *LoadedRepository) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.descriptors[id])
	}
	return out
}

// PackageKey returns the key identifying a descriptor in this repository.
func (r *LoadedRepository) PackageKey(d Descriptor) PackageKey {
	return NewKey(r.meta.Base, d.ID, Params{Channel: r.channel})
}

// Status returns the installation status of a package, defaulting to not installed.
func (r *LoadedRepository) Status(key PackageKey) PackageStatus {
	if s, ok := r.statuses[key]; ok {
		if s.Target == "" {
			s.Target = TargetUser
		}
		return s
	}
	return DefaultStatus
}

// Fingerprint returns a digest of the snapshot contents.
// Two snapshots with equal fingerprints render identically.
func (r *LoadedRepository) Fingerprint() uint64 {
	return r.fingerprint
}

func (r *LoadedRepository) computeFingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(r.meta.Base)
	_, _ = h.WriteString("\x00" + r.channel + "\x00")

	for _, id := range r.order {
		// map keys are sorted by encoding/json, so the output is stable
		data, err := json.Marshal(r.descriptors[id])
		if err != nil {
			_, _ = h.WriteString(id)
			continue
		}
		_, _ = h.Write(data)
	}

	keys := make([]PackageKey, 0, len(r.statuses))
	for k := range r.statuses {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	for _, k := range keys {
		s := r.statuses[k]
		_, _ = h.WriteString(k.String() + "=" + string(s.Status) + "/" + string(s.Target) + "\n")
	}

	return h.Sum64()
}

// SameSnapshots reports whether two snapshot lists are equal by URL, channel and fingerprint.
func SameSnapshots(a, b []*LoadedRepository) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		if a[i] == nil || b[i] == nil {
			return false
		}
		if a[i].URL() != b[i].URL() || a[i].Channel() != b[i].Channel() || a[i].Fingerprint() != b[i].Fingerprint() {
			return false
		}
	}
	return true
}
