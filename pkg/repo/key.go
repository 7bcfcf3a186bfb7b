package repo

import (
	"fmt"
	"net/url"
	"strings"
)

// Params narrows a package key to a specific platform, architecture, version or channel.
// An empty field means the parameter is absent.
type Params struct {
	Platform string `json:"platform,omitempty" toml:"platform" yaml:"platform,omitempty"`
	Arch     string `json:"arch,omitempty" toml:"arch" yaml:"arch,omitempty"`
	Version  string `json:"version,omitempty" toml:"version" yaml:"version,omitempty"`
	Channel  string `json:"channel,omitempty" toml:"channel" yaml:"channel,omitempty"`
}

// IsZero returns true if no parameter is set.
func (p Params) IsZero() bool {
	return p == Params{}
}

// queryItems returns the present parameters in canonical order.
func (p Params) queryItems() [][2]string {
	var items [][2]string
	if p.Platform != "" {
		items = append(items, [2]string{"platform", p.Platform})
	}
	if p.Arch != "" {
		items = append(items, [2]string{"arch", p.Arch})
	}
	if p.Version != "" {
		items = append(items, [2]string{"version", p.Version})
	}
	if p.Channel != "" {
		items = append(items, [2]string{"channel", p.Channel})
	}
	return items
}

// PackageKey uniquely identifies a package within a repository.
// It is comparable and used directly as a map key.
type PackageKey struct {
	RepositoryURL string `json:"repository_url"`
	ID            string `json:"id"`
	Params        Params `json:"params"`
}

// NewKey creates a key for a package in a repository.
func NewKey(repositoryURL, id string, params Params) PackageKey {
	return PackageKey{
		RepositoryURL: strings.TrimRight(repositoryURL, "/"),
		ID:            id,
		Params:        params,
	}
}

// String returns the canonical form: <repo>/packages/<id>?platform=&arch=&version=&channel=
func (k PackageKey) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(k.RepositoryURL, "/"))
	b.WriteString("/packages/")
	b.WriteString(url.PathEscape(k.ID))

	items := k.Params.queryItems()
	for i, item := range items {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(item[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(item[1]))
	}

	return b.String()
}

// ParseKey parses the canonical string form of a package key.
func ParseKey(s string) (PackageKey, error) {
	u, err := url.Parse(s)
	if err != nil {
		return PackageKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	idx := strings.LastIndex(u.Path, "/packages/")
	if idx < 0 || u.Scheme == "" {
		return PackageKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	id := u.Path[idx+len("/packages/"):]
	if id == "" || strings.Contains(id, "/") {
		return PackageKey{}, fmt.Errorf("%w: missing package id in %q", ErrInvalidKey, s)
	}

	base := *u
	base.Path = u.Path[:idx]
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""

	q := u.Query()
	params := Params{
		Platform: q.Get("platform"),
		Arch:     q.Get("arch"),
		Version:  q.Get("version"),
		Channel:  q.Get("channel"),
	}

	return NewKey(base.String(), id, params), nil
}
