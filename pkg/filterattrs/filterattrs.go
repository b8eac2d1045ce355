// Package filterattrs provides a public Go API for removing volatile
// attribute blocks from h5dump and ncdump text output.
//
// This package exposes the filterattrs filter as a library, allowing test
// harnesses to normalise dumps without shelling out to the CLI.
//
// Basic usage:
//
//	res, err := filterattrs.Filter(dumpReader, os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(res.Removals), "attributes removed")
//
// With options:
//
//	res, err := filterattrs.FilterFile("tst.dump", "tst.filtered",
//	    filterattrs.WithProfile("classic"),
//	    filterattrs.WithAttrs("_FillValue", "_ChunkSizes"),
//	)
package filterattrs

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ral-nujan/filterattrs/internal/filter"
	"github.com/ral-nujan/filterattrs/internal/lineio"
	"github.com/ral-nujan/filterattrs/internal/logging"
)

// Re-exported filter types.
type (
	// Result is the outcome of a filter run.
	Result = filter.Result
	// Removal describes one removed block or inline attribute line.
	Removal = filter.Removal
	// MalformedBlockError reports an attribute block with no closer inside
	// the lookahead window.
	MalformedBlockError = filter.MalformedBlockError
	// IOError reports a failure to open, read or write a dump.
	IOError = lineio.IOError
)

// Removal kinds.
const (
	KindBlock  = filter.KindBlock
	KindInline = filter.KindInline
)

// DefaultProfile is the profile used when no option selects another.
const DefaultProfile = filter.DefaultProfile

// Option configures a filter run. Use the With* functions to create Options.
type Option func(*options)

type options struct {
	profile   string
	attrs     []string
	lookahead int
	logger    *slog.Logger
}

// WithProfile selects a built-in profile ("classic" or "extended").
func WithProfile(name string) Option { return func(o *options) { o.profile = name } }

// WithAttrs replaces the profile's attribute names.
func WithAttrs(names ...string) Option {
	return func(o *options) { o.attrs = append([]string(nil), names...) }
}

// WithLookahead replaces the profile's maximum block length in lines.
func WithLookahead(n int) Option { return func(o *options) { o.lookahead = n } }

// WithLogger sets the logger that receives one debug record per removal.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

func buildOptions(opts []Option) (filter.Options, *slog.Logger, error) {
	o := &options{profile: filter.DefaultProfile}
	for _, fn := range opts {
		fn(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	p, err := filter.ResolveProfile(o.profile, nil)
	if err != nil {
		return filter.Options{}, nil, err
	}

	fo := p.Options()

	if len(o.attrs) > 0 {
		fo.AttrNames = o.attrs
	}

	if o.lookahead != 0 {
		fo.Lookahead = o.lookahead
	}

	if err := fo.Validate(); err != nil {
		return filter.Options{}, nil, fmt.Errorf("invalid options: %w", err)
	}

	return fo, o.logger, nil
}

// FilterLines filters lines that may or may not carry trailing newlines.
// The returned lines carry none.
func FilterLines(lines []string, opts ...Option) (*Result, error) {
	res, _, err := filterLines(lines, opts)

	return res, err
}

func filterLines(lines []string, opts []Option) (*Result, *slog.Logger, error) {
	fo, logger, err := buildOptions(opts)
	if err != nil {
		return nil, nil, err
	}

	f, err := filter.New(fo)
	if err != nil {
		return nil, nil, err
	}

	res, err := f.Apply(lines)
	if err != nil {
		return nil, nil, err
	}

	for _, rm := range res.Removals {
		logger.Debug("removed attribute",
			slog.String("kind", string(rm.Kind)),
			slog.String("attr", rm.Attr),
			slog.Int("first", rm.First),
			slog.Int("last", rm.Last),
		)
	}

	return res, logger, nil
}

// Filter reads a dump from r and writes the filtered dump to w. Nothing is
// written when filtering fails.
func Filter(r io.Reader, w io.Writer, opts ...Option) (*Result, error) {
	lines, err := lineio.ReadLines(r)
	if err != nil {
		return nil, &IOError{Op: "reading", Path: "input", Err: err}
	}

	res, _, err := filterLines(lines, opts)
	if err != nil {
		return nil, err
	}

	if err := lineio.NewStdoutSink(w).WriteLines(res.Lines); err != nil {
		return nil, err
	}

	return res, nil
}

// FilterFile filters the dump at in and writes it to out. Either path may
// be "-" for stdin or stdout.
func FilterFile(in, out string, opts ...Option) (*Result, error) {
	lines, err := lineio.ReadFile(in, nil)
	if err != nil {
		return nil, err
	}

	res, logger, err := filterLines(lines, opts)
	if err != nil {
		return nil, err
	}

	if err := lineio.NewSink(out, nil, logger).WriteLines(res.Lines); err != nil {
		return nil, err
	}

	return res, nil
}
