package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emdflow/emdflow/internal/flowgraph"
)

func buildTestGraph(t *testing.T) *flowgraph.Graph {
	t.Helper()
	// R=3, C=2, default emd_cost [0,1,2], full neighborhood width.
	amplitudes := [][]float64{{0, 1}, {1, 0}, {0, 0}}
	g, err := flowgraph.Build(amplitudes, 2, []float64{0, 1, 2})
	require.NoError(t, err)
	return g
}

func TestRunFlow_ZeroSparsityIsAllFalse(t *testing.T) {
	g := buildTestGraph(t)
	e := New(g)
	e.SetSparsity(0)
	e.RunFlow(1.0)

	assert.Equal(t, int64(0), e.EmdUsed())
	assert.Equal(t, 0.0, e.AmplitudeSum())
	for _, row := range e.Support() {
		for _, v := range row {
			assert.False(t, v)
		}
	}
}

func TestRunFlow_IdempotentUnderRepetition(t *testing.T) {
	g := buildTestGraph(t)
	e := New(g)
	e.SetSparsity(2)

	e.RunFlow(1.0)
	firstEmd, firstAmp, firstSupport := e.EmdUsed(), e.AmplitudeSum(), e.Support()

	e.RunFlow(1.0)
	assert.Equal(t, firstEmd, e.EmdUsed())
	assert.Equal(t, firstAmp, e.AmplitudeSum())
	assert.Equal(t, firstSupport, e.Support())
}

func TestRunFlow_CapacityInvariantHolds(t *testing.T) {
	g := buildTestGraph(t)
	e := New(g)
	e.SetSparsity(2)
	e.RunFlow(0.5)

	for _, edge := range g.Edges {
		opp := g.Edges[edge.Opposite]
		assert.Equal(t, int8(1), edge.Cap+opp.Cap)
	}
}

func TestRunFlow_AmplitudeSumMatchesSupport(t *testing.T) {
	g := buildTestGraph(t)
	e := New(g)
	e.SetSparsity(2)
	e.RunFlow(1.0)

	support := e.Support()
	want := 0.0
	for r, row := range support {
		for c, active := range row {
			if active {
				want += g.Amplitudes[r][c]
			}
		}
	}
	assert.Equal(t, want, e.AmplitudeSum())
}

func TestRunFlow_WidthZeroForcesSameRow(t *testing.T) {
	amplitudes := [][]float64{{1, 0}, {0, 1}, {0, 0}}
	g, err := flowgraph.Build(amplitudes, 0, []float64{0})
	require.NoError(t, err)

	e := New(g)
	e.SetSparsity(1)
	e.RunFlow(1.0)

	assert.Equal(t, int64(0), e.EmdUsed(), "width 0 forces same-row transport, EMD always 0")
}

func TestProbeMinTransport_DoesNotAffectSubsequentRunFlow(t *testing.T) {
	g := buildTestGraph(t)
	e := New(g)
	e.SetSparsity(2)

	e.ProbeMinTransport()
	_ = e.EmdUsed()

	e.RunFlow(1.0)
	support := e.Support()
	want := 0.0
	for r, row := range support {
		for c, active := range row {
			if active {
				want += g.Amplitudes[r][c]
			}
		}
	}
	assert.Equal(t, want, e.AmplitudeSum(), "RunFlow after a probe must still reflect full reward weight")
}
