package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/md"
)

func TestSCLattice(t *testing.T) {
	snap, err := SCLattice(2.0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if snap.N() != 125 {
		t.Fatalf("expected 125 particles, got %d", snap.N())
	}
	if snap.Box.L[0] != 10 {
		t.Errorf("box edge = %f, want 10", snap.Box.L[0])
	}
	for i, p := range snap.Pos {
		for k := 0; k < 3; k++ {
			if p[k] < 0 || p[k] >= 10 {
				t.Fatalf("particle %d outside box: %v", i, p)
			}
		}
	}

	if _, err := SCLattice(0, 5); !errors.Is(err, md.ErrConfiguration) {
		t.Errorf("zero spacing: expected ErrConfiguration, got %v", err)
	}
	if _, err := SCLattice(1.0, 0); !errors.Is(err, md.ErrConfiguration) {
		t.Errorf("zero cells: expected ErrConfiguration, got %v", err)
	}
}

func TestFromConfigValidation(t *testing.T) {
	bad := config.DefaultConfig()
	bad.Index = "rtree"
	if _, err := FromConfig(bad); !errors.Is(err, md.ErrConfiguration) {
		t.Errorf("bad index: expected ErrConfiguration, got %v", err)
	}

	half := config.DefaultConfig()
	half.ListMode = "half"
	if _, err := FromConfig(half); !errors.Is(err, md.ErrConfiguration) {
		t.Errorf("half list in the step loop: expected ErrConfiguration, got %v", err)
	}
}

type countingObserver struct {
	steps    int
	rebuilds int
}

func (c *countingObserver) OnStep(info StepInfo) {
	c.steps++
	if info.Rebuilt {
		c.rebuilds++
	}
}

func TestRunTutorialSystem(t *testing.T) {
	s, err := FromConfig(config.GetPreset("tutorial"))
	if err != nil {
		t.Fatal(err)
	}

	obs := &countingObserver{}
	s.AddObserver(obs)

	if err := s.Run(context.Background(), 50); err != nil {
		t.Fatal(err)
	}

	if obs.steps != 50 || s.Steps() != 50 {
		t.Errorf("observer saw %d steps, simulator counts %d", obs.steps, s.Steps())
	}
	if obs.rebuilds < 1 {
		t.Error("no rebuild observed, not even the initial build")
	}
	if math.IsNaN(s.PotentialEnergy()) || math.IsNaN(s.Temperature()) {
		t.Error("thermo quantities diverged")
	}
	if s.Temperature() <= 0 {
		t.Errorf("temperature %f after thermostatted run", s.Temperature())
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	s, err := FromConfig(config.GetPreset("tutorial"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if s.Steps() != 0 {
		t.Errorf("steps advanced under a cancelled context: %d", s.Steps())
	}
}

func TestNewValidation(t *testing.T) {
	s, err := FromConfig(config.GetPreset("tutorial"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(s.Snapshot(), nil, s.Scheduler(), nil, nil, 0.005); !errors.Is(err, md.ErrConfiguration) {
		t.Errorf("velocity mismatch: expected ErrConfiguration, got %v", err)
	}
	if _, err := New(s.Snapshot(), make([]md.Vec, s.Snapshot().N()), s.Scheduler(), nil, nil, 0); !errors.Is(err, md.ErrConfiguration) {
		t.Errorf("zero dt: expected ErrConfiguration, got %v", err)
	}
}
