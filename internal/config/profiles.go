package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/ral-nujan/filterattrs/internal/filter"
)

// profileNamePattern validates custom profile names.
// Must start with a letter and contain only letters, digits, and hyphens.
var profileNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// ParseProfiles parses the profiles section from raw config file bytes.
// A file without a profiles section yields an empty map.
func ParseProfiles(data []byte) (map[string]filter.ProfileConfig, error) {
	var raw struct {
		Profiles map[string]filter.ProfileConfig `json:"profiles,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	if raw.Profiles == nil {
		raw.Profiles = map[string]filter.ProfileConfig{}
	}

	if err := ValidateProfiles(raw.Profiles); err != nil {
		return nil, err
	}

	return raw.Profiles, nil
}

// LoadProfiles reads path and parses its profiles section.
func LoadProfiles(path string) (map[string]filter.ProfileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from viper
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	return ParseProfiles(data)
}

// ValidateProfiles checks custom profiles for correctness. A profile that
// does not extend a built-in must be usable on its own. Profiles are checked
// in name order so the reported error is stable.
func ValidateProfiles(profiles map[string]filter.ProfileConfig) error {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		p := profiles[name]

		if !profileNamePattern.MatchString(name) {
			return fmt.Errorf("profiles[%s]: name is invalid (must match %s)", name, profileNamePattern.String())
		}

		if filter.IsBuiltinProfile(name) {
			return fmt.Errorf("profiles[%s]: name shadows a built-in profile", name)
		}

		if p.Extends != "" {
			if !filter.IsBuiltinProfile(p.Extends) {
				return fmt.Errorf("profiles[%s]: extends unknown built-in profile %q", name, p.Extends)
			}

			if p.Lookahead != 0 && p.Lookahead < filter.MinLookahead {
				return fmt.Errorf("profiles[%s]: lookahead %d is invalid (must be at least %d)", name, p.Lookahead, filter.MinLookahead)
			}

			continue
		}

		if len(p.Attrs) == 0 {
			return fmt.Errorf("profiles[%s]: attrs is required unless the profile extends a built-in", name)
		}

		if p.Lookahead < filter.MinLookahead {
			return fmt.Errorf("profiles[%s]: lookahead %d is invalid (must be at least %d)", name, p.Lookahead, filter.MinLookahead)
		}
	}

	return nil
}
