// Package search implements the Lagrangian outer search over lambda: it
// drives a solver.Engine through a sequence of trial run_flow calls until
// the achieved EMD cost lands inside [boundLow, boundHigh] or the
// iteration budget is exhausted.
package search

import "github.com/emdflow/emdflow/internal/solver"

// Bounds is the target EMD window, inclusive on both ends.
type Bounds struct {
	Low, High int64
}

// Bracket is the initial lambda search interval.
type Bracket struct {
	Low, High float64
}

// Outcome is the final state of a search: the lambda that was last run,
// whether the instance is feasible, and the resulting bracket endpoints
// to report alongside the engine's readers.
type Outcome struct {
	Feasible   bool
	FinalLow   float64
	FinalHigh  float64
	LastLambda float64
}

// Run drives engine through phases A-D of the lambda search and leaves
// engine's last RunFlow state matching the returned Outcome: callers read
// support/emd_used/amplitude_sum straight off engine after Run returns.
//
// When Feasible is false, engine's last RunFlow was the Phase A probe
// (lambda_emd=1 equivalent: zero reward, pure transport minimization) and
// its state must not be reported as a solution — the caller is expected
// to return an empty-support result instead.
func Run(engine *solver.Engine, bounds Bounds, bracket Bracket, maxIterations int) Outcome {
	// Phase A: feasibility probe (lambda_emd=1, lambda_signal=0) — ignore
	// amplitude reward entirely and minimize pure transport cost. This
	// yields the minimum EMD cost achievable by any F-path selection.
	engine.ProbeMinTransport()
	minEMD := engine.EmdUsed()

	if minEMD > bounds.High {
		return Outcome{Feasible: false}
	}

	lo, hi := bracket.Low, bracket.High

	// Phase B: expand lambda_hi.
	for {
		engine.RunFlow(hi)
		emd := engine.EmdUsed()
		if emd >= bounds.Low && emd <= bounds.High {
			return Outcome{Feasible: true, FinalLow: lo, FinalHigh: hi, LastLambda: hi}
		}
		if emd < bounds.Low {
			break // hi is already past the feasible range; move to Phase C
		}
		hi *= 2
	}

	// Phase C: shrink lambda_lo.
	engine.RunFlow(0)
	maxEMD := engine.EmdUsed()
	if maxEMD < bounds.High {
		// No lower bound is binding; accept this result as-is (it may or
		// may not reach bounds.Low — that's reported informationally by
		// the caller, not treated as a failure here).
		return Outcome{Feasible: true, FinalLow: 0, FinalHigh: hi, LastLambda: 0}
	}

	for {
		engine.RunFlow(lo)
		emd := engine.EmdUsed()
		if emd > bounds.High {
			break // have a bracket; exit to Phase D
		}
		if emd >= bounds.Low {
			return Outcome{Feasible: true, FinalLow: lo, FinalHigh: hi, LastLambda: lo}
		}
		lo /= 2
	}

	// Phase D: binary search.
	iterations := 0
	engine.RunFlow(hi)
	emd := engine.EmdUsed()
	for iterations < maxIterations && (emd < bounds.Low || emd > bounds.High) {
		mid := (lo + hi) / 2
		engine.RunFlow(mid)
		emd = engine.EmdUsed()
		if emd <= bounds.High {
			hi = mid
		} else {
			lo = mid
		}
		iterations++
	}

	// Re-run at lambda_hi so the reported flow state corresponds to the
	// reported bracket, per spec's own acknowledged redundancy.
	engine.RunFlow(hi)

	return Outcome{Feasible: true, FinalLow: lo, FinalHigh: hi, LastLambda: hi}
}
