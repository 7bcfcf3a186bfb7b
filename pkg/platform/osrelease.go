package platform

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// OSRelease holds the fields of /etc/os-release that pahkat reports.
type OSRelease struct {
	ID         string
	IDLike     []string
	VersionID  string
	PrettyName string
	Name       string
}

// ReadOSRelease parses /etc/os-release, falling back to /usr/lib/os-release.
func ReadOSRelease() (*OSRelease, error) {
	var lastErr error
	for _, path := range []string{"/etc/os-release", "/usr/lib/os-release"} {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		defer f.Close()
		return ParseOSRelease(f)
	}
	return nil, lastErr
}

// ParseOSRelease parses os-release formatted KEY=value lines.
func ParseOSRelease(r io.Reader) (*OSRelease, error) {
	info := &OSRelease{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), "\"'")

		switch key {
		case "ID":
			info.ID = value
		case "ID_LIKE":
			info.IDLike = strings.Fields(value)
		case "VERSION_ID":
			info.VersionID = value
		case "PRETTY_NAME":
			info.PrettyName = value
		case "NAME":
			info.Name = value
		}
	}

	if info.PrettyName == "" {
		info.PrettyName = info.Name
	}

	return info, scanner.Err()
}
