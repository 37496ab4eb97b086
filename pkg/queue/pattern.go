package queue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPatternExpr matches the common "queue: 123" style of position
// indicator. Waiting-room pages with more elaborate phrasing supply their
// own expression, e.g. `Number of users in line ahead of you:[\s\S]*?(\d+)`.
const DefaultPatternExpr = `queue[:\s]+(\d+)`

// Pattern is a compiled queue-position pattern. The expression must contain
// exactly one capturing group, and that group must match a non-negative
// base-10 integer. Matching is always case-insensitive.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// CompilePattern compiles and validates a queue-position expression.
// Validation happens here, never during extraction: a malformed expression
// or a wrong number of capturing groups is a configuration error surfaced
// before monitoring starts.
func CompilePattern(expr string) (*Pattern, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("pattern expression is required")
	}

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}

	if n := re.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("pattern %q must contain exactly one capturing group, found %d", expr, n)
	}

	return &Pattern{expr: expr, re: re}, nil
}

// MustCompilePattern is CompilePattern for expressions known to be valid,
// such as package-level defaults. Panics on error.
func MustCompilePattern(expr string) *Pattern {
	p, err := CompilePattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original expression the pattern was compiled from.
func (p *Pattern) String() string {
	return p.expr
}

// Extract returns every position signal found in text, in document order.
// One signal is produced per non-overlapping match of the pattern. An empty
// result means "no signal yet" and is a normal state, not a failure;
// extraction itself never returns an error.
func (p *Pattern) Extract(text string) []int {
	matches := p.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	signals := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			// The capturing group matched something that is not a
			// non-negative integer. The group contract makes this a
			// configuration problem, never a reason to fail a scan.
			continue
		}
		signals = append(signals, n)
	}
	return signals
}
