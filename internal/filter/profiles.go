package filter

import (
	"fmt"
	"sort"
)

// DefaultProfile is used when no profile is configured.
const DefaultProfile = "extended"

// ProfileConfig describes a reusable attribute set that can be applied by
// name via --profile.
type ProfileConfig struct {
	// Attrs lists the attribute names to strip.
	Attrs []string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	// Lookahead is the block window; zero inherits from Extends.
	Lookahead int `json:"lookahead,omitempty" yaml:"lookahead,omitempty"`
	// Extends names a built-in profile to extend with these additional rules.
	Extends string `json:"extends,omitempty" yaml:"extends,omitempty"`
}

// Options converts the profile into filter options.
func (p ProfileConfig) Options() Options {
	return Options{
		AttrNames: append([]string(nil), p.Attrs...),
		Lookahead: p.Lookahead,
	}
}

// builtinProfiles contains the built-in profile definitions.
var builtinProfiles = map[string]ProfileConfig{
	"classic": {
		Attrs:     []string{"_FillValue"},
		Lookahead: 10,
	},
	"extended": {
		Attrs:     []string{"_FillValue", "_Unsigned"},
		Lookahead: 20,
	},
}

// BuiltinProfileNames returns the names of all built-in profiles, sorted.
func BuiltinProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IsBuiltinProfile reports whether name is a built-in profile.
func IsBuiltinProfile(name string) bool {
	_, ok := builtinProfiles[name]
	return ok
}

// ResolveProfile resolves a profile name to its configuration by checking
// built-in profiles first, then custom profiles. Returns an error if the
// profile name is not found in either source.
func ResolveProfile(name string, custom map[string]ProfileConfig) (ProfileConfig, error) {
	if p, ok := builtinProfiles[name]; ok {
		return copyProfile(p), nil
	}

	if p, ok := custom[name]; ok {
		if p.Extends != "" {
			base, err := ResolveProfile(p.Extends, nil)
			if err != nil {
				return ProfileConfig{}, fmt.Errorf("profile %q extends unknown profile %q", name, p.Extends)
			}

			return mergeProfiles(base, p), nil
		}

		return copyProfile(p), nil
	}

	return ProfileConfig{}, fmt.Errorf("unknown profile %q", name)
}

// mergeProfiles merges an extension profile on top of a base profile.
// Attribute names are appended without duplicates; a non-zero lookahead
// in ext wins.
func mergeProfiles(base, ext ProfileConfig) ProfileConfig {
	merged := ProfileConfig{
		Attrs:     append([]string{}, base.Attrs...),
		Lookahead: base.Lookahead,
	}

	seen := make(map[string]bool, len(merged.Attrs))
	for _, a := range merged.Attrs {
		seen[a] = true
	}

	for _, a := range ext.Attrs {
		if !seen[a] {
			merged.Attrs = append(merged.Attrs, a)
			seen[a] = true
		}
	}

	if ext.Lookahead != 0 {
		merged.Lookahead = ext.Lookahead
	}

	return merged
}

func copyProfile(p ProfileConfig) ProfileConfig {
	p.Attrs = append([]string(nil), p.Attrs...)
	return p
}
