package explain

import (
	"context"
	"strings"
)

// rule pairs a lowercase substring predicate with the explanation it
// produces. Rules are evaluated in order and the first match wins, so
// more specific predicates must come before more general ones. Keeping
// the list as explicit data (instead of an if/else chain) makes the
// precedence auditable and lets each rule be tested on its own.
type rule struct {
	match       string
	explanation Explanation
}

// rules maps well-known Python error classes to fixed templates.
// The predicates are plain substring tests against a lowercased copy
// of the error text — deliberately crude, but they cover the mistakes
// beginners actually make.
var rules = []rule{
	{
		match: "nameerror",
		explanation: Explanation{
			Summary:       "You used a variable before defining it.",
			WhyItHappened: "Python could not find the variable name.",
			HowToFix: []string{
				"Define the variable before using it",
				"Check spelling",
			},
			CorrectedExample: strPtr("x = 10\nprint(x)"),
			Confidence:       0.95,
		},
	},
	{
		match: "zerodivisionerror",
		explanation: Explanation{
			Summary:       "You divided a number by zero.",
			WhyItHappened: "Division by zero is undefined.",
			HowToFix: []string{
				"Ensure the denominator is not zero",
			},
			CorrectedExample: strPtr("if y != 0:\n    print(x / y)"),
			Confidence:       0.95,
		},
	},
	{
		match: "syntaxerror",
		explanation: Explanation{
			Summary:       "There is a syntax mistake in your code.",
			WhyItHappened: "Python could not parse the code.",
			HowToFix: []string{
				"Check brackets, colons, indentation",
			},
			Confidence: 0.85,
		},
	},
}

// catchAll is returned when no rule matches. Lower confidence than the
// rule templates — we know something went wrong but not what.
var catchAll = Explanation{
	Summary:       "Your code caused an error.",
	WhyItHappened: "Python encountered a runtime problem.",
	HowToFix: []string{
		"Read the error message",
		"Fix the issue and retry",
	},
	Confidence: 0.7,
}

// Fallback is the deterministic, offline Explainer. It needs no
// configuration and never fails.
type Fallback struct{}

// NewFallback creates the rule-based Explainer.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Explain matches errText against the rule list and returns the first
// matching template, or the catch-all if nothing matched. The code
// argument is unused here — only the remote variant looks at it.
func (f *Fallback) Explain(_ context.Context, _ string, errText string) Explanation {
	lower := strings.ToLower(errText)
	for _, r := range rules {
		if strings.Contains(lower, r.match) {
			return r.explanation
		}
	}
	return catchAll
}

// Starvation is the fixed explanation for a run that timed out while
// blocked on input() with no stdin supplied. The cause is known
// structurally — the runner detected it — so this bypasses the rule
// list entirely.
func Starvation() Explanation {
	return Explanation{
		Summary:       "Your code is waiting for user input.",
		WhyItHappened: "The script calls input() but the API call did not supply stdin data.",
		HowToFix: []string{
			"Add the expected input in the 'Program input' field before running",
			"Or remove input() calls if they are not required",
		},
		Confidence: 0.95,
	}
}

// Unavailable is the degraded-mode notice returned when the remote
// explanation path is configured but could not produce a result. The
// 0.5 confidence tells the caller this is not a diagnosis of the error
// itself.
func Unavailable() Explanation {
	return Explanation{
		Summary:       "A detailed AI explanation could not be generated.",
		WhyItHappened: "The remote explanation service did not return a usable answer.",
		HowToFix: []string{
			"Read the raw error message below",
			"Retry to request a fresh explanation",
		},
		Confidence: 0.5,
	}
}

func strPtr(s string) *string {
	return &s
}
