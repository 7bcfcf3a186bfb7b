// Package repo provides the catalog model for Pahkat repositories: package keys,
// descriptors, releases and loaded repository snapshots.
package repo

import "strings"

// PayloadKind represents the installer payload variant of a target.
type PayloadKind string

const (
	// PayloadMacOSPackage is a macOS .pkg installer.
	PayloadMacOSPackage PayloadKind = "MacOSPackage"
	// PayloadWindowsExecutable is a Windows .exe or .msi installer.
	PayloadWindowsExecutable PayloadKind = "WindowsExecutable"
	// PayloadTarballPackage is a plain tarball.
	PayloadTarballPackage PayloadKind = "TarballPackage"
)

// InstallTarget is where a package gets installed.
type InstallTarget string

const (
	TargetUser   InstallTarget = "user"
	TargetSystem InstallTarget = "system"
)

// Status is the installation state of a package as reported by the package client.
type Status string

const (
	StatusNotInstalled   Status = "not-installed"
	StatusUpToDate       Status = "up-to-date"
	StatusRequiresUpdate Status = "requires-update"
	StatusError          Status = "error"
)

// PackageStatus pairs an installation status with the target it applies to.
type PackageStatus struct {
	Status Status        `json:"status"`
	Target InstallTarget `json:"target"`
}

// DefaultStatus is used for packages the package client knows nothing about.
var DefaultStatus = PackageStatus{Status: StatusNotInstalled, Target: TargetUser}

// Payload describes the installer for a target.
type Payload struct {
	Kind          PayloadKind     `json:"type" toml:"type" yaml:"type"`
	URL           string          `json:"url" toml:"url" yaml:"url"`
	Size          int64           `json:"size,omitempty" toml:"size" yaml:"size,omitempty"`
	InstalledSize int64           `json:"installed_size,omitempty" toml:"installed_size" yaml:"installed_size,omitempty"`
	Targets       []InstallTarget `json:"targets,omitempty" toml:"targets" yaml:"targets,omitempty"`
}

// Target is a platform-specific build of a release.
type Target struct {
	Platform string   `json:"platform" toml:"platform" yaml:"platform"`
	Arch     string   `json:"arch,omitempty" toml:"arch" yaml:"arch,omitempty"`
	Payload  *Payload `json:"payload,omitempty" toml:"payload" yaml:"payload,omitempty"`
}

// Release is a single version of a package.
type Release struct {
	Version string   `json:"version" toml:"version" yaml:"version"`
	Channel string   `json:"channel,omitempty" toml:"channel" yaml:"channel,omitempty"`
	Target  []Target `json:"target" toml:"target" yaml:"target"`
}

// TargetFor returns the first target matching the platform, or nil.
func (r *Release) TargetFor(platform string) *Target {
	for i := range r.Target {
		if r.Target[i].Platform == platform {
			return &r.Target[i]
		}
	}
	return nil
}

// Descriptor is the metadata of a package within a repository.
type Descriptor struct {
	ID          string            `json:"id" toml:"id" yaml:"id"`
	Name        map[string]string `json:"name" toml:"name" yaml:"name"`
	Description map[string]string `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty" toml:"tags" yaml:"tags,omitempty"`
	Release     []Release         `json:"release" toml:"release" yaml:"release"`
}

// LastRelease returns the release placed last by the repository, or nil.
// Releases are not compared by version; the repository order is authoritative.
func (d *Descriptor) LastRelease() *Release {
	if len(d.Release) == 0 {
		return nil
	}
	return &d.Release[len(d.Release)-1]
}

// FirstRelease returns the first release that has a target for the platform.
func (d *Descriptor) FirstRelease(platform string) *Release {
	for i := range d.Release {
		if d.Release[i].TargetFor(platform) != nil {
			return &d.Release[i]
		}
	}
	return nil
}

// NativeName returns the name in the given language, falling back to English and then the ID.
func (d *Descriptor) NativeName(lang string) string {
	return localized(d.Name, lang, d.ID)
}

// NativeDescription returns the description in the given language, falling back to English.
func (d *Descriptor) NativeDescription(lang string) string {
	return localized(d.Description, lang, "")
}

// TagsWithPrefix returns every tag with the given prefix, in declared order.
func (d *Descriptor) TagsWithPrefix(prefix string) []string {
	var out []string
	for _, tag := range d.Tags {
		if strings.HasPrefix(tag, prefix) {
			out = append(out, tag)
		}
	}
	return out
}

// localized looks up lang, then its base language, then "en".
func localized(m map[string]string, lang, fallback string) string {
	if lang != "" {
		lang = strings.ReplaceAll(lang, "_", "-")
		if v, ok := m[lang]; ok && v != "" {
			return v
		}
		if base, _, ok := strings.Cut(lang, "-"); ok {
			if v, ok := m[base]; ok && v != "" {
				return v
			}
		}
	}
	if v, ok := m["en"]; ok && v != "" {
		return v
	}
	return fallback
}
