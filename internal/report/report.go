// Package report renders filter statistics and profile listings for humans
// and scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ral-nujan/filterattrs/internal/filter"
)

// Supported output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Stats summarises one filter run.
type Stats struct {
	Source       string         `json:"source,omitempty" yaml:"source,omitempty"`
	InputLines   int            `json:"inputLines" yaml:"inputLines"`
	OutputLines  int            `json:"outputLines" yaml:"outputLines"`
	RemovedLines int            `json:"removedLines" yaml:"removedLines"`
	Blocks       int            `json:"blocks" yaml:"blocks"`
	Inline       int            `json:"inline" yaml:"inline"`
	ByAttr       map[string]int `json:"byAttr,omitempty" yaml:"byAttr,omitempty"`
}

// NewStats derives statistics from a filter result.
func NewStats(source string, res *filter.Result) Stats {
	s := Stats{
		Source:       source,
		InputLines:   res.InputLines,
		OutputLines:  len(res.Lines),
		RemovedLines: res.RemovedLines(),
		Blocks:       res.Count(filter.KindBlock),
		Inline:       res.Count(filter.KindInline),
	}

	if len(res.Removals) > 0 {
		s.ByAttr = make(map[string]int)
		for _, rm := range res.Removals {
			s.ByAttr[rm.Attr]++
		}
	}

	return s
}

// ProfileEntry describes one profile in a listing.
type ProfileEntry struct {
	Name      string   `json:"name" yaml:"name"`
	Builtin   bool     `json:"builtin" yaml:"builtin"`
	Default   bool     `json:"default,omitempty" yaml:"default,omitempty"`
	Extends   string   `json:"extends,omitempty" yaml:"extends,omitempty"`
	Attrs     []string `json:"attrs" yaml:"attrs"`
	Lookahead int      `json:"lookahead" yaml:"lookahead"`
}

// Profiles lists the built-in profiles followed by the custom ones, each
// group sorted by name. Custom profiles are shown resolved.
func Profiles(custom map[string]filter.ProfileConfig, active string) ([]ProfileEntry, error) {
	entries := make([]ProfileEntry, 0, len(custom)+2)

	for _, name := range filter.BuiltinProfileNames() {
		p, err := filter.ResolveProfile(name, nil)
		if err != nil {
			return nil, err
		}

		entries = append(entries, ProfileEntry{
			Name:      name,
			Builtin:   true,
			Default:   name == active,
			Attrs:     p.Attrs,
			Lookahead: p.Lookahead,
		})
	}

	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		p, err := filter.ResolveProfile(name, custom)
		if err != nil {
			return nil, err
		}

		entries = append(entries, ProfileEntry{
			Name:      name,
			Default:   name == active,
			Extends:   custom[name].Extends,
			Attrs:     p.Attrs,
			Lookahead: p.Lookahead,
		})
	}

	return entries, nil
}

// Write encodes v to w in the given format.
func Write(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: must be one of yaml, json", format)
	}
}
