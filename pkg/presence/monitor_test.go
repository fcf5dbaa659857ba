package presence

import (
	"context"
	"errors"
	"testing"
)

type fakeCoil struct {
	writes []bool
	err    error
}

func (f *fakeCoil) WriteCoil(_ context.Context, _ uint16, on bool) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, on)
	return nil
}

func TestMonitor_EdgeTriggered(t *testing.T) {
	coil := &fakeCoil{}
	m := NewMonitor(coil, 1)
	ctx := context.Background()

	states := []bool{false, false, true, true, true, false, true}
	for _, s := range states {
		m.Observe(ctx, s)
	}

	want := []bool{false, true, false, true}
	if len(coil.writes) != len(want) {
		t.Fatalf("got %d writes %v, want %d", len(coil.writes), coil.writes, len(want))
	}
	for i := range want {
		if coil.writes[i] != want[i] {
			t.Errorf("write %d: got %v, want %v", i, coil.writes[i], want[i])
		}
	}
}

func TestMonitor_FirstObservationAlwaysWrites(t *testing.T) {
	coil := &fakeCoil{}
	m := NewMonitor(coil, 1)

	wrote, err := m.Observe(context.Background(), false)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if !wrote {
		t.Error("initial state was not written")
	}
}

func TestMonitor_WriteFailureAdvancesState(t *testing.T) {
	coil := &fakeCoil{err: errors.New("plc offline")}
	m := NewMonitor(coil, 1)
	ctx := context.Background()

	wrote, err := m.Observe(ctx, true)
	if !wrote || err == nil {
		t.Fatalf("got wrote=%v err=%v, want attempted write with error", wrote, err)
	}

	// Same state again: no retry, the edge is gone
	wrote, _ = m.Observe(ctx, true)
	if wrote {
		t.Error("failed write was retried on an unchanged state")
	}

	if !m.Present() {
		t.Error("state did not advance past the failed write")
	}
}

func TestMonitor_NilCoilIsDryRun(t *testing.T) {
	m := NewMonitor(nil, 1)

	var changes []bool
	m.OnChange = func(p bool) { changes = append(changes, p) }

	m.Observe(context.Background(), true)
	m.Observe(context.Background(), true)
	m.Observe(context.Background(), false)

	if len(changes) != 2 {
		t.Errorf("got %d transitions %v, want 2", len(changes), changes)
	}
}
