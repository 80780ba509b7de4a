package finder

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// MatchTimeout bounds a single match attempt so a pathological user regex
// cannot stall the caller.
const MatchTimeout = 250 * time.Millisecond

// metaChars are the characters escaped in literal mode.
const metaChars = `.*+?^${}()|[]\`

// Pattern is a compiled query.
//
// A Pattern is in exactly one of three states:
//   - usable: the query compiled and Usable returns true
//   - invalid: regex mode and the query failed to compile; Err is set
//   - empty: the trimmed query was empty; neither usable nor an error
//
// A Pattern carries no scan state and is safe for concurrent use.
type Pattern struct {
	query string
	expr  string
	opts  domain.SearchOptions
	re    *regexp2.Regexp
	err   error
}

// Compile turns a raw query and its options into a Pattern.
func Compile(query string, opts domain.SearchOptions) *Pattern {
	query = strings.TrimSpace(query)
	p := &Pattern{query: query, opts: opts}
	if query == "" {
		return p
	}

	expr := query
	if !opts.UseRegex {
		expr = Escape(query)
	}

	flags := regexp2.RegexOptions(regexp2.ECMAScript)
	if !opts.CaseSensitive {
		flags |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(expr, flags)
	if err != nil {
		p.err = fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
		return p
	}
	re.MatchTimeout = MatchTimeout

	p.expr = expr
	p.re = re
	return p
}

// Escape backslash-escapes every regex metacharacter in s so the result
// matches s literally.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Usable reports whether the pattern can be matched against text.
func (p *Pattern) Usable() bool {
	return p != nil && p.re != nil
}

// Empty reports whether the pattern came from an empty query.
func (p *Pattern) Empty() bool {
	return p == nil || (p.query == "" && p.err == nil)
}

// Err returns the compile error, if any. It wraps domain.ErrInvalidPattern.
func (p *Pattern) Err() error {
	if p == nil {
		return nil
	}
	return p.err
}

// Query returns the trimmed query the pattern was compiled from.
func (p *Pattern) Query() string {
	if p == nil {
		return ""
	}
	return p.query
}

// Expr returns the effective expression. Empty unless the pattern is usable.
func (p *Pattern) Expr() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Options returns the options the pattern was compiled with.
func (p *Pattern) Options() domain.SearchOptions {
	if p == nil {
		return domain.SearchOptions{}
	}
	return p.opts
}

// String renders the pattern in /expr/flags form for logs.
func (p *Pattern) String() string {
	switch {
	case p.Usable():
		flags := "g"
		if !p.opts.CaseSensitive {
			flags += "i"
		}
		return "/" + p.expr + "/" + flags
	case p.Err() != nil:
		return "<invalid: " + p.err.Error() + ">"
	default:
		return "<empty>"
	}
}
