package repo

import (
	"strings"
	"time"
)

// iso8601Layouts are tried in order for timestamp-based versions.
var iso8601Layouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	time.RFC3339Nano,
	time.RFC3339,
}

// DisplayLayout is the short date-time layout used for timestamp versions.
const DisplayLayout = "2006-01-02 15:04"

// ParseTimestampVersion parses a version that is an ISO-8601 UTC timestamp.
func ParseTimestampVersion(version string) (time.Time, bool) {
	if !strings.HasSuffix(version, "Z") {
		return time.Time{}, false
	}
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, version); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NativeVersion returns the version formatted for display in the local time zone.
// Nightly builds are versioned with a timestamp; anything else is returned as is.
func (r *Release) NativeVersion() string {
	return NativeVersionIn(r.Version, time.Local)
}

// NativeVersionIn is NativeVersion for an explicit location.
func NativeVersionIn(version string, loc *time.Location) string {
	t, ok := ParseTimestampVersion(version)
	if !ok {
		return version
	}
	return t.In(loc).Format(DisplayLayout)
}
