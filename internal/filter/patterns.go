package filter

import (
	"regexp"
)

// attrPatterns holds the compiled matchers for one attribute name.
type attrPatterns struct {
	name string
	// block matches a block opener and captures its leading whitespace.
	block *regexp.Regexp
	// inline matches a one-line `ident:name = value` assignment.
	inline *regexp.Regexp
}

func compilePatterns(name string) attrPatterns {
	quoted := regexp.QuoteMeta(name)

	return attrPatterns{
		name:   name,
		block:  regexp.MustCompile(`^([ \t]*)ATTRIBUTE "` + quoted + `" \{$`),
		inline: regexp.MustCompile(`^[ \t]*[A-Za-z0-9]+:` + quoted + ` = `),
	}
}

// matchBlock reports whether line opens a block for this attribute and
// returns the exact text the closing line must equal.
func (p attrPatterns) matchBlock(line string) (string, bool) {
	m := p.block.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}

	return m[1] + "}", true
}

func (p attrPatterns) matchInline(line string) bool {
	return p.inline.MatchString(line)
}
