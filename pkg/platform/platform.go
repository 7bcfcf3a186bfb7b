// Package platform detects the platform and architecture that release
// targets are matched against.
package platform

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Platform names as they appear in release targets.
const (
	MacOS   = "macos"
	Windows = "windows"
	Linux   = "linux"
)

// ErrUnknownPlatform is returned for a platform override that is not recognized.
var ErrUnknownPlatform = zerr.New("unknown platform")

// Info describes the running system.
type Info struct {
	Platform   string
	Arch       string
	PrettyName string
	Version    string
}

// Detect returns information about the running system. Version details are
// best effort; failures leave the fields empty.
func Detect(ctx context.Context) *Info {
	info := &Info{
		Platform: FromGOOS(runtime.GOOS),
		Arch:     ArchName(runtime.GOARCH),
	}

	switch info.Platform {
	case Linux:
		if rel, err := ReadOSRelease(); err == nil {
			info.PrettyName = rel.PrettyName
			info.Version = rel.VersionID
		}
		if info.PrettyName == "" {
			info.PrettyName = "Linux"
		}
	case MacOS:
		info.PrettyName = "macOS"
		if out, err := exec.CommandContext(ctx, "sw_vers", "-productVersion").Output(); err == nil {
			info.Version = strings.TrimSpace(string(out))
		}
	case Windows:
		info.PrettyName = "Windows"
	default:
		info.PrettyName = runtime.GOOS
	}

	return info
}

// Resolve applies configured overrides to the detected information.
func (i Info) Resolve(platform, arch string) (Info, error) {
	if platform != "" {
		p, err := Parse(platform)
		if err != nil {
			return i, err
		}
		if p != i.Platform {
			i.PrettyName = ""
			i.Version = ""
		}
		i.Platform = p
	}
	if arch != "" {
		i.Arch = ArchName(arch)
	}
	return i, nil
}

// String returns a short description such as "macos/aarch64 (macOS 14.4)".
func (i Info) String() string {
	s := i.Platform + "/" + i.Arch
	name := strings.TrimSpace(i.PrettyName + " " + i.Version)
	if name != "" {
		s += " (" + name + ")"
	}
	return s
}

// FromGOOS maps a Go operating system name to a platform name.
func FromGOOS(goos string) string {
	switch goos {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	case "linux":
		return Linux
	}
	return goos
}

// Parse normalizes a platform name or alias.
func Parse(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "macos", "darwin", "osx":
		return MacOS, nil
	case "windows", "win":
		return Windows, nil
	case "linux":
		return Linux, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnknownPlatform, "cannot parse platform"), "platform", name)
}

// ArchName maps Go architecture names to the names used by release targets.
// Unknown names are returned unchanged.
func ArchName(arch string) string {
	switch strings.ToLower(arch) {
	case "amd64", "x64", "x86_64":
		return "x86_64"
	case "386", "x86", "i686":
		return "i686"
	case "arm64", "aarch64":
		return "aarch64"
	}
	return arch
}
