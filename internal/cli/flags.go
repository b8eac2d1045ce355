package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/ral-nujan/filterattrs/internal/filter"
)

// registerGlobalFlags adds the persistent flags shared by every command.
func registerGlobalFlags(f *pflag.FlagSet, cfgFile *string) {
	f.StringVar(cfgFile, "config", "", "config file (default: .filterattrs.yaml)")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "text", "log format: text, json")
	f.Bool("no-color", false, "disable colored output")
	f.BoolP("quiet", "q", false, "suppress non-essential output")

	registerFilterFlags(f)
}

// registerFilterFlags adds the flags that shape the attribute filter.
func registerFilterFlags(f *pflag.FlagSet) {
	f.StringP("profile", "p", filter.DefaultProfile, "attribute profile: "+profileNamesUsage())
	f.StringSlice("attrs", nil, "attribute names to remove (replaces the profile's list)")
	f.Int("lookahead", 0, "maximum block length in lines (0 keeps the profile's value)")
	f.Bool("stats", false, "write filter statistics to stderr")
	f.String("stats-format", "yaml", "statistics format: yaml, json")
}

func profileNamesUsage() string {
	return strings.Join(filter.BuiltinProfileNames(), ", ") + ", or a custom profile"
}
