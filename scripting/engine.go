// Package scripting lets a run customize effect parameters per page with a
// small JavaScript hook. A script defines a global function
//
//	function configFor(page) { return {smudge_probability: 0.5}; }
//
// whose return value overrides selected configuration knobs for that page.
package scripting

import "context"

// Engine executes scripts in the context of a document run.
type Engine interface {
	// Execute evaluates a script and returns its exported value.
	Execute(ctx context.Context, script string) (interface{}, error)
}

// Overrides carries the per-page knobs a script may adjust. Nil fields leave
// the run configuration untouched.
type Overrides struct {
	SmudgeProbability   *float64
	ScanlineProbability *float64
	CurlVertical        *float64
	CurlHorizontal      *float64
	NoiseSigma          *float64
	MaxRotationDeg      *float64
	Skip                *bool
}
