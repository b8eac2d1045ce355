package filter

import (
	"errors"
	"fmt"
	"strings"
)

// MinLookahead is the smallest usable window: an opener and its closer.
const MinLookahead = 2

// Options configures a Filter.
type Options struct {
	// AttrNames are the attribute names to strip, tried in order.
	AttrNames []string
	// Lookahead is the maximum number of lines a block may span, opener
	// and closer included.
	Lookahead int
}

// DefaultOptions returns the options of the default profile.
func DefaultOptions() Options {
	p, _ := ResolveProfile(DefaultProfile, nil)

	return p.Options()
}

// Validate checks that the options describe a usable filter.
func (o Options) Validate() error {
	if len(o.AttrNames) == 0 {
		return errors.New("at least one attribute name is required")
	}

	for i, name := range o.AttrNames {
		if name == "" {
			return fmt.Errorf("attribute name %d is empty", i)
		}
	}

	if o.Lookahead < MinLookahead {
		return fmt.Errorf("invalid lookahead %d: must be at least %d", o.Lookahead, MinLookahead)
	}

	return nil
}

// RemovalKind identifies which construct a Removal dropped.
type RemovalKind string

// Construct kinds.
const (
	KindBlock  RemovalKind = "block"
	KindInline RemovalKind = "inline"
)

// Removal records one dropped construct. Line numbers are 1-based and
// inclusive.
type Removal struct {
	Kind  RemovalKind
	Attr  string
	First int
	Last  int
}

// Len returns the number of input lines the removal consumed.
func (r Removal) Len() int {
	return r.Last - r.First + 1
}

// Result holds the outcome of one filter run.
type Result struct {
	// Lines are the surviving lines, without terminators, in input order.
	Lines []string
	// Removals lists dropped constructs in input order.
	Removals []Removal
	// InputLines is the number of lines read.
	InputLines int
}

// RemovedLines returns the total number of lines consumed by removals.
func (r *Result) RemovedLines() int {
	n := 0
	for _, rm := range r.Removals {
		n += rm.Len()
	}

	return n
}

// Count returns the number of removals of the given kind.
func (r *Result) Count(kind RemovalKind) int {
	n := 0

	for _, rm := range r.Removals {
		if rm.Kind == kind {
			n++
		}
	}

	return n
}

// MalformedBlockError is returned when an attribute block has no closing
// line inside the lookahead window.
type MalformedBlockError struct {
	// Line is the 1-based line number of the opener.
	Line int
	// Text is the opener line.
	Text string
	// Attr is the attribute name that matched.
	Attr string
	// Closer is the exact line that would have closed the block.
	Closer string
	// Lookahead is the window that was searched.
	Lookahead int
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("unterminated %q attribute block at line %d: %q (no %q within %d lines)",
		e.Attr, e.Line, e.Text, e.Closer, e.Lookahead)
}

// Filter strips configured attribute constructs from dump lines.
// A Filter is immutable and safe for concurrent use.
type Filter struct {
	opts     Options
	patterns []attrPatterns
}

// New validates opts and compiles the matchers.
func New(opts Options) (*Filter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f := &Filter{
		opts: Options{
			AttrNames: append([]string(nil), opts.AttrNames...),
			Lookahead: opts.Lookahead,
		},
		patterns: make([]attrPatterns, 0, len(opts.AttrNames)),
	}

	for _, name := range opts.AttrNames {
		f.patterns = append(f.patterns, compilePatterns(name))
	}

	return f, nil
}

// Options returns a copy of the filter's options.
func (f *Filter) Options() Options {
	return Options{
		AttrNames: append([]string(nil), f.opts.AttrNames...),
		Lookahead: f.opts.Lookahead,
	}
}

// Apply runs the filter over lines. Each line may carry one trailing "\n",
// which is removed. On error no partial result is returned.
func (f *Filter) Apply(lines []string) (*Result, error) {
	lines = Normalize(lines)

	res := &Result{
		Lines:      make([]string, 0, len(lines)),
		InputLines: len(lines),
	}

	for i := 0; i < len(lines); {
		next, removal, err := f.matchAt(lines, i)
		if err != nil {
			return nil, err
		}

		if removal != nil {
			res.Removals = append(res.Removals, *removal)
			i = next

			continue
		}

		res.Lines = append(res.Lines, lines[i])
		i++
	}

	return res, nil
}

// matchAt tries every construct at position i. It returns the cursor
// position after a match and the removal, or a nil removal when the line
// passes through.
func (f *Filter) matchAt(lines []string, i int) (int, *Removal, error) {
	line := lines[i]

	for _, p := range f.patterns {
		closer, ok := p.matchBlock(line)
		if !ok {
			continue
		}

		end := min(i+f.opts.Lookahead, len(lines))
		for j := i + 1; j < end; j++ {
			if lines[j] == closer {
				return j + 1, &Removal{Kind: KindBlock, Attr: p.name, First: i + 1, Last: j + 1}, nil
			}
		}

		return 0, nil, &MalformedBlockError{
			Line:      i + 1,
			Text:      line,
			Attr:      p.name,
			Closer:    closer,
			Lookahead: f.opts.Lookahead,
		}
	}

	for _, p := range f.patterns {
		if p.matchInline(line) {
			return i + 1, &Removal{Kind: KindInline, Attr: p.name, First: i + 1, Last: i + 1}, nil
		}
	}

	return i + 1, nil, nil
}

// Lines is a convenience wrapper that builds a Filter from opts and returns
// only the surviving lines.
func Lines(lines []string, opts Options) ([]string, error) {
	f, err := New(opts)
	if err != nil {
		return nil, err
	}

	res, err := f.Apply(lines)
	if err != nil {
		return nil, err
	}

	return res.Lines, nil
}

// Normalize returns a copy of lines with a single trailing "\n" removed
// from each.
func Normalize(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSuffix(l, "\n")
	}

	return out
}
