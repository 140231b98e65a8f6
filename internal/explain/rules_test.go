package explain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackRules(t *testing.T) {
	f := NewFallback()
	ctx := context.Background()

	tests := []struct {
		name           string
		errText        string
		wantSummary    string
		wantConfidence float64
		wantExample    bool
	}{
		{
			name:           "undefined variable",
			errText:        "Traceback (most recent call last):\n  File \"<string>\", line 1, in <module>\nNameError: name 'foo' is not defined",
			wantSummary:    "You used a variable before defining it.",
			wantConfidence: 0.95,
			wantExample:    true,
		},
		{
			name:           "division by zero",
			errText:        "Traceback (most recent call last):\nZeroDivisionError: division by zero",
			wantSummary:    "You divided a number by zero.",
			wantConfidence: 0.95,
			wantExample:    true,
		},
		{
			name:           "syntax error",
			errText:        "  File \"<string>\", line 1\n    print(\nSyntaxError: '(' was never closed",
			wantSummary:    "There is a syntax mistake in your code.",
			wantConfidence: 0.85,
			wantExample:    false,
		},
		{
			name:           "unknown error falls through to catch-all",
			errText:        "TypeError: unsupported operand type(s) for +: 'int' and 'str'",
			wantSummary:    "Your code caused an error.",
			wantConfidence: 0.7,
			wantExample:    false,
		},
		{
			name:           "empty error text",
			errText:        "",
			wantSummary:    "Your code caused an error.",
			wantConfidence: 0.7,
			wantExample:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expl := f.Explain(ctx, "", tt.errText)
			assert.Equal(t, tt.wantSummary, expl.Summary)
			assert.Equal(t, tt.wantConfidence, expl.Confidence)
			assert.NotEmpty(t, expl.HowToFix, "every explanation must carry at least one fix step")
			if tt.wantExample {
				assert.NotNil(t, expl.CorrectedExample)
			} else {
				assert.Nil(t, expl.CorrectedExample)
			}
		})
	}
}

// Matching is case-insensitive — CPython capitalises exception class
// names, but we normalise before matching so casing never matters.
func TestFallbackCaseInsensitive(t *testing.T) {
	f := NewFallback()
	expl := f.Explain(context.Background(), "", "NAMEERROR: name 'x' is not defined")
	assert.Equal(t, "You used a variable before defining it.", expl.Summary)
}

func TestRuleTemplatesWellFormed(t *testing.T) {
	for _, r := range rules {
		assert.NotEmpty(t, r.explanation.HowToFix, "rule %q has empty fix list", r.match)
		assert.GreaterOrEqual(t, r.explanation.Confidence, 0.0)
		assert.LessOrEqual(t, r.explanation.Confidence, 1.0)
	}
	assert.NotEmpty(t, catchAll.HowToFix)
}

func TestStarvationTemplate(t *testing.T) {
	expl := Starvation()
	assert.Equal(t, 0.95, expl.Confidence)
	assert.Contains(t, expl.Summary, "waiting for user input")
	assert.NotEmpty(t, expl.HowToFix)
}

func TestUnavailableTemplate(t *testing.T) {
	expl := Unavailable()
	assert.Equal(t, 0.5, expl.Confidence)
	assert.NotEmpty(t, expl.HowToFix)
}
