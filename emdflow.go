// Package emdflow computes structured-sparse approximations of a
// real-valued matrix under an Earth-Mover's-Distance (EMD) budget: given
// an R×C amplitude matrix, a per-column sparsity target, and a window on
// allowable EMD cost, Solve returns a boolean support mask that respects
// both constraints while maximizing the sum of activated amplitudes.
package emdflow

import (
	"log/slog"

	"github.com/emdflow/emdflow/internal/backend"
	"github.com/emdflow/emdflow/internal/flowgraph"
	"github.com/emdflow/emdflow/internal/search"
	"github.com/emdflow/emdflow/internal/solver"
	"github.com/emdflow/emdflow/pkg/apperror"
	"github.com/emdflow/emdflow/pkg/elog"
	"github.com/emdflow/emdflow/pkg/metrics"
)

// IngestMode selects how raw signed amplitudes become the non-negative
// rewards the solver optimizes over.
type IngestMode int

const (
	// IngestAbs installs |x[r][c]| as the reward, the core's default.
	IngestAbs IngestMode = iota
	// IngestSquare installs x[r][c]^2. This changes the meaning and
	// typical magnitude of AmplitudeSum but not the EMD graph topology
	// or the lambda-search mechanics: lambda still scales transport cost
	// against whichever reward values are installed on the node gates.
	IngestSquare
)

// Args carries the inputs to a single Solve call.
type Args struct {
	// X is the R×C amplitude matrix (R >= 1, C >= 1).
	X [][]float64
	// Sparsity is the per-column activation cap, 1 <= Sparsity <= R.
	Sparsity int
	// EmdBoundLow and EmdBoundHigh bracket the target EMD window.
	EmdBoundLow, EmdBoundHigh int64
	// LambdaLow and LambdaHigh seed the outer search's initial bracket.
	LambdaLow, LambdaHigh float64
	// NumSearchIterations caps Phase D's binary search.
	NumSearchIterations int
	// OutdegreeVerticalDistance is W, or -1 for R-1 (full bipartite layer).
	OutdegreeVerticalDistance int
	// EmdCosts is the per-distance cost table; empty defaults to emd_cost[i]=i.
	EmdCosts []float64
	// AlgType selects the solving backend.
	AlgType backend.AlgType
	// Ingest selects how X becomes non-negative reward.
	Ingest IngestMode
	// Logger receives verbose structured records when Verbose is set.
	// Defaults to elog.Log when nil.
	Logger *slog.Logger
	// Verbose toggles structured log records after the graph build, on an
	// infeasible lambda search, and on the solved result.
	Verbose bool
	// Metrics, if non-nil, records per Solve call the duration of the whole
	// lambda search, one search count, the augmenting paths of the final
	// run_flow, and infeasible outcomes. Individual run_flow calls are not
	// timed or counted.
	Metrics *metrics.SolverMetrics
}

// Result is the packaged output of a Solve call: the activation mask, the
// EMD cost it incurred, the amplitude sum it achieved, and the final
// lambda bracket the search converged to.
//
// An infeasible or error outcome is signaled by a zero-length Support (size
// 0, not R×C of false) — per spec.md, infeasibility is a successful call,
// never a returned error.
type Result struct {
	Support         [][]bool
	EmdCost         int64
	AmplitudeSum    float64
	FinalLambdaLow  float64
	FinalLambdaHigh float64
	Feasible        bool
	Note            string
}

// Solve runs the full pipeline: validate args, build the flow graph (C1),
// drive the lambda search (C3) over the SSP engine (C2), and package the
// final flow state (C4).
//
// Configuration errors are returned before any graph work is attempted.
// Infeasibility is never an error: it is reported as a Result with
// Feasible=false and an empty Support.
func Solve(args Args) (Result, error) {
	log := args.Logger
	if log == nil {
		log = elog.Log
	}

	if err := validate(args); err != nil {
		return Result{}, err
	}

	w := args.OutdegreeVerticalDistance
	r := len(args.X)
	if w == -1 {
		w = r - 1
	}

	emdCosts := args.EmdCosts
	if len(emdCosts) == 0 {
		emdCosts = make([]float64, w+1)
		for i := range emdCosts {
			emdCosts[i] = float64(i)
		}
	}

	amplitudes := ingest(args.X, args.Ingest)

	graph, err := flowgraph.Build(amplitudes, w, emdCosts)
	if err != nil {
		return Result{}, err
	}

	if args.Verbose {
		elog.WithPhase(log, "graph_build").Info("built flow graph", "rows", graph.R, "cols", graph.C, "width", graph.W)
	}

	// TypeLvlath's ProbeFeasibility is a structural invariant check, not a
	// feasibility gate: flowgraph.Build already rejects width < 0, and any
	// width >= 0 guarantees a same-row transport edge for every row, giving
	// R vertex-disjoint unit-capacity S->T paths regardless of sparsity. A
	// graph Build() accepted can therefore never fail this probe; seeing
	// false here means graph construction itself is broken, which is a bug
	// to surface loudly, not a user-facing infeasible Result (spec.md's
	// notion of infeasibility is about the EMD window, decided solely by
	// internal/search below, never about raw flow capacity).
	if args.AlgType == backend.TypeLvlath {
		reachable, probeErr := backend.ProbeFeasibility(graph, args.Sparsity)
		if probeErr != nil {
			return Result{}, apperror.Wrap(probeErr, apperror.CodeAlgorithmError, "lvlath feasibility cross-check failed")
		}
		if !reachable {
			return Result{}, apperror.New(apperror.CodeInternal,
				"lvlath cross-check found fewer than sparsity augmenting paths on a graph flowgraph.Build accepted; this is a graph-construction invariant violation, not user-input infeasibility")
		}
	}

	engine := solver.New(graph)
	engine.SetSparsity(args.Sparsity)

	bounds := search.Bounds{Low: args.EmdBoundLow, High: args.EmdBoundHigh}
	bracket := search.Bracket{Low: args.LambdaLow, High: args.LambdaHigh}

	var timer *metrics.Timer
	if args.Metrics != nil {
		timer = metrics.NewTimer(args.Metrics.RunFlowDuration)
	}

	outcome := search.Run(engine, bounds, bracket, args.NumSearchIterations)

	if timer != nil {
		timer.ObserveDuration()
		args.Metrics.SearchIterations.Inc()
	}

	if !outcome.Feasible {
		if args.Metrics != nil {
			args.Metrics.InfeasibleTotal.Inc()
		}
		if args.Verbose {
			elog.WithPhase(log, "lambda_search").Info("infeasible", "min_emd", engine.EmdUsed(), "bound_high", args.EmdBoundHigh)
		}
		return Result{Support: [][]bool{}, Note: "infeasible: minimum achievable EMD exceeds emd_bound_high"}, nil
	}

	if args.Metrics != nil {
		args.Metrics.AugmentingPathsTotal.Add(float64(engine.AugmentCount()))
	}

	if args.Verbose {
		elog.WithPhase(log, "solved").Info("solved",
			"emd_used", engine.EmdUsed(),
			"amplitude_sum", engine.AmplitudeSum(),
			"final_lambda_low", outcome.FinalLow,
			"final_lambda_high", outcome.FinalHigh,
		)
	}

	return Result{
		Support:         engine.Support(),
		EmdCost:         engine.EmdUsed(),
		AmplitudeSum:    engine.AmplitudeSum(),
		FinalLambdaLow:  outcome.FinalLow,
		FinalLambdaHigh: outcome.FinalHigh,
		Feasible:        true,
	}, nil
}

func ingest(x [][]float64, mode IngestMode) [][]float64 {
	out := make([][]float64, len(x))
	for r, row := range x {
		out[r] = make([]float64, len(row))
		for c, v := range row {
			switch mode {
			case IngestSquare:
				out[r][c] = v * v
			default:
				if v < 0 {
					v = -v
				}
				out[r][c] = v
			}
		}
	}
	return out
}

func validate(args Args) error {
	r := len(args.X)
	if r == 0 {
		return apperror.ErrInvalidDimensions
	}
	c := len(args.X[0])
	if c == 0 {
		return apperror.ErrInvalidDimensions
	}
	for _, row := range args.X {
		if len(row) != c {
			return apperror.New(apperror.CodeInvalidDimensions, "x rows must share the same length")
		}
	}
	if args.Sparsity < 1 || args.Sparsity > r {
		return apperror.ErrInvalidSparsity
	}
	if args.EmdBoundLow < 0 || args.EmdBoundLow > args.EmdBoundHigh {
		return apperror.ErrInvalidBounds
	}
	if args.LambdaLow <= 0 || args.LambdaLow > args.LambdaHigh {
		return apperror.ErrInvalidLambda
	}
	if args.NumSearchIterations < 1 {
		return apperror.ErrInvalidIterations
	}
	if args.OutdegreeVerticalDistance < -1 {
		return apperror.ErrInvalidWidth
	}
	w := args.OutdegreeVerticalDistance
	if w == -1 {
		w = r - 1
	}
	if len(args.EmdCosts) != 0 && len(args.EmdCosts) != w+1 {
		return apperror.ErrInvalidCostTable
	}
	if !backend.Known(args.AlgType) {
		return apperror.ErrUnknownAlgorithm
	}
	return nil
}
