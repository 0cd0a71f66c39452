package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew_Unregistered(t *testing.T) {
	m := New(nil, "emdflow", "solver")

	if m.RunFlowDuration == nil {
		t.Error("RunFlowDuration should not be nil")
	}
	if m.AugmentingPathsTotal == nil {
		t.Error("AugmentingPathsTotal should not be nil")
	}
	if m.SearchIterations == nil {
		t.Error("SearchIterations should not be nil")
	}
	if m.InfeasibleTotal == nil {
		t.Error("InfeasibleTotal should not be nil")
	}
}

func TestNew_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "emdflow", "solver")

	m.AugmentingPathsTotal.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "emdflow_solver_augmenting_paths_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected augmenting_paths_total to be registered and gathered")
	}
	_ = m
}

func TestTimer_ObserveDuration(t *testing.T) {
	m := New(nil, "emdflow", "solver")
	timer := NewTimer(m.RunFlowDuration)
	d := timer.ObserveDuration()
	if d < 0 {
		t.Error("expected non-negative duration")
	}
}
