package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emdflow/emdflow/internal/flowgraph"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known(TypeInternalSSP))
	assert.True(t, Known(TypeLvlath))
	assert.True(t, Known(TypeGonum))
	assert.False(t, Known(TypeExternalC))
	assert.False(t, Known(AlgType(99)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "internal_ssp", TypeInternalSSP.String())
	assert.Equal(t, "lvlath", TypeLvlath.String())
	assert.Equal(t, "gonum", TypeGonum.String())
	assert.Equal(t, "unknown", AlgType(99).String())
}

func TestProbeFeasibility_FullWidthAlwaysReachesTarget(t *testing.T) {
	g, err := flowgraph.Build([][]float64{{1, 2}, {3, 4}, {5, 6}}, 2, []float64{0, 1, 2})
	require.NoError(t, err)

	ok, err := ProbeFeasibility(g, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProbeFeasibility_ZeroWidthStillAlwaysReachesTarget(t *testing.T) {
	// Width 0 forces same-row transport only, but every row still has its
	// own same-row path to the sink, so R vertex-disjoint unit-capacity
	// paths exist regardless of width: this is the structural invariant
	// ProbeFeasibility documents, not a capability to observe infeasible
	// capacity under a narrow width.
	g, err := flowgraph.Build([][]float64{{1, 2}, {3, 4}, {5, 6}}, 0, []float64{0})
	require.NoError(t, err)

	ok, err := ProbeFeasibility(g, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProbeFeasibility_ZeroSparsityAlwaysFeasible(t *testing.T) {
	g, err := flowgraph.Build([][]float64{{1, 2}, {3, 4}}, 1, []float64{0, 1})
	require.NoError(t, err)

	ok, err := ProbeFeasibility(g, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGonumShortestDistances_SourceIsZero(t *testing.T) {
	g, err := flowgraph.Build([][]float64{{1, 2}, {3, 4}}, 1, []float64{0, 1})
	require.NoError(t, err)

	phi := make([]float64, g.NumNodes)
	distances := GonumShortestDistances(g, phi)

	require.Len(t, distances, g.NumNodes)
	assert.Equal(t, 0.0, distances[flowgraph.NodeS])
	for _, d := range distances {
		assert.GreaterOrEqual(t, d, 0.0)
	}
}
