package config

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/ral-nujan/filterattrs/internal/filter"
)

// SuggestProfile returns the known profile name that best matches name, or
// "" when nothing is close.
func SuggestProfile(name string, custom map[string]filter.ProfileConfig) string {
	if name == "" {
		return ""
	}

	candidates := filter.BuiltinProfileNames()

	extra := make([]string, 0, len(custom))
	for n := range custom {
		extra = append(extra, n)
	}

	sort.Strings(extra)
	candidates = append(candidates, extra...)

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}
