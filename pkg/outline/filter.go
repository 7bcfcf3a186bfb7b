package outline

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// Filter selects how the packages of a repository are grouped.
type Filter string

const (
	// FilterCategory groups packages by their first "cat:" tag.
	FilterCategory Filter = "category"
	// FilterLanguage groups packages by each of their "lang:" tags.
	FilterLanguage Filter = "language"
)

// ErrUnknownFilter is returned when a filter name is not recognized.
var ErrUnknownFilter = zerr.New("unknown filter")

// Filters lists every supported filter in display order.
var Filters = []Filter{FilterCategory, FilterLanguage}

// ParseFilter parses a filter name. The empty string selects FilterCategory.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterCategory:
		return FilterCategory, nil
	case FilterLanguage:
		return FilterLanguage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Next returns the filter following f, wrapping around.
func (f Filter) Next() Filter {
	for i, other := range Filters {
		if other == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterCategory
}

func (f Filter) String() string {
	return string(f)
}
