package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern_Valid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{
			name: "default pattern",
			expr: DefaultPatternExpr,
		},
		{
			name: "waiting room phrasing",
			expr: `Number of users in line ahead of you:[\s\S]*?(\d+)`,
		},
		{
			name: "position keyword",
			expr: `position\s+(\d+)\s+of`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, err := CompilePattern(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, pattern.String())
		})
	}
}

func TestCompilePattern_ConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		expectError string
	}{
		{
			name:        "empty expression",
			expr:        "",
			expectError: "pattern expression is required",
		},
		{
			name:        "whitespace only",
			expr:        "   ",
			expectError: "pattern expression is required",
		},
		{
			name:        "malformed regexp",
			expr:        `queue[:\s+(\d+)`,
			expectError: "invalid pattern",
		},
		{
			name:        "no capturing group",
			expr:        `queue[:\s]+\d+`,
			expectError: "exactly one capturing group",
		},
		{
			name:        "two capturing groups",
			expr:        `(queue)[:\s]+(\d+)`,
			expectError: "exactly one capturing group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompilePattern(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestPattern_Extract(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		text    string
		signals []int
	}{
		{
			name:    "single match",
			expr:    DefaultPatternExpr,
			text:    "You are in the queue: 42",
			signals: []int{42},
		},
		{
			name:    "case insensitive",
			expr:    DefaultPatternExpr,
			text:    "QUEUE: 7",
			signals: []int{7},
		},
		{
			name:    "multiple matches in document order",
			expr:    DefaultPatternExpr,
			text:    "queue: 30 ... queue 12 ... Queue: 99",
			signals: []int{30, 12, 99},
		},
		{
			name:    "zero is a real position",
			expr:    DefaultPatternExpr,
			text:    "queue: 0",
			signals: []int{0},
		},
		{
			name:    "no match is empty, not an error",
			expr:    DefaultPatternExpr,
			text:    "Please wait while we transfer you...",
			signals: nil,
		},
		{
			name:    "empty text",
			expr:    DefaultPatternExpr,
			text:    "",
			signals: nil,
		},
		{
			name:    "waiting room phrasing across lines",
			expr:    `Number of users in line ahead of you:[\s\S]*?(\d+)`,
			text:    "Number of users in line ahead of you:\n\n  1532\n",
			signals: []int{1532},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, err := CompilePattern(tt.expr)
			require.NoError(t, err)

			signals := pattern.Extract(tt.text)
			assert.Equal(t, tt.signals, signals)
		})
	}
}

func TestPattern_Extract_MatchCountIndependentOfSessions(t *testing.T) {
	// k matches yield exactly k integers regardless of anything else.
	pattern := MustCompilePattern(DefaultPatternExpr)

	text := ""
	for i := 0; i < 25; i++ {
		text += "queue: 5\n"
	}

	signals := pattern.Extract(text)
	require.Len(t, signals, 25)
	for _, n := range signals {
		assert.Equal(t, 5, n)
	}
}

func TestMustCompilePattern_PanicsOnBadExpression(t *testing.T) {
	assert.Panics(t, func() {
		MustCompilePattern(`(a)(b)`)
	})
}
