// Package backend implements the polymorphic solver-backend dispatch
// described by spec.md's Design Notes: a closed enum of algorithm choices,
// with the internal SSP engine as the required, always-correct path and
// two library-backed cross-checks: an lvlath max-flow check of the built
// graph's capacity and a gonum Dijkstra that the tests compare against the
// engine's own shortest paths.
package backend

// AlgType selects among the built-in SSP engine and the optional
// library-backed backends. Unknown values are a configuration error.
type AlgType int

const (
	// TypeInternalSSP is the required engine of spec.md §4.2. This is the
	// only backend internal/search ever calls into for the actual solve.
	TypeInternalSSP AlgType = iota
	// TypeLvlath wraps github.com/katalvlaran/lvlath's core and flow
	// (Dinic) packages: Solve first runs ProbeFeasibility, a cost-blind
	// max-flow check that F unit-capacity paths reach the sink, as a
	// structural invariant check on the built graph, then solves with the
	// internal engine. It never computes EMD cost or amplitude sum — those
	// stay the internal engine's exclusive responsibility.
	TypeLvlath
	// TypeGonum wraps gonum.org/v1/gonum/graph/path.DijkstraFrom as an
	// independent oracle used by the test suite to cross-check the
	// internal engine's own Dijkstra on the same residual graph.
	TypeGonum
	// TypeExternalC is named for forward compatibility with the source's
	// three-external-backend design but is intentionally left unbound:
	// no pack library supplied a third, distinct graph engine without
	// duplicating TypeLvlath's or TypeGonum's role.
	TypeExternalC
)

// Known reports whether t is a backend Solve accepts. The named but unbound
// TypeExternalC, like any undefined value, reports false.
func Known(t AlgType) bool {
	switch t {
	case TypeInternalSSP, TypeLvlath, TypeGonum:
		return true
	default:
		return false
	}
}

// String renders an AlgType for logging.
func (t AlgType) String() string {
	switch t {
	case TypeInternalSSP:
		return "internal_ssp"
	case TypeLvlath:
		return "lvlath"
	case TypeGonum:
		return "gonum"
	case TypeExternalC:
		return "external_c"
	default:
		return "unknown"
	}
}
