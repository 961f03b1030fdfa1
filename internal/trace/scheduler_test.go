package trace

import (
	"testing"

	"github.com/openhwlab/scopedump/internal/logging"
	"github.com/openhwlab/scopedump/internal/manifest"
)

func TestEarliest(t *testing.T) {
	mk := func(id uint32, samples, cur uint32, cycleTime uint64) *Tap {
		return &Tap{ID: id, Samples: samples, CurSample: cur, CycleTime: cycleTime}
	}

	tests := []struct {
		name   string
		taps   []*Tap
		wantID uint32
		none   bool
	}{
		{
			name: "smallest cycle time wins",
			taps: []*Tap{
				mk(0, 10, 0, 50),
				mk(1, 10, 0, 20),
				mk(2, 10, 0, 30),
			},
			wantID: 1,
		},
		{
			name: "empty taps excluded",
			taps: []*Tap{
				mk(0, 0, 0, 0),
				mk(1, 5, 0, 100),
			},
			wantID: 1,
		},
		{
			name: "finished taps excluded",
			taps: []*Tap{
				mk(0, 5, 5, 10),
				mk(1, 5, 2, 99),
			},
			wantID: 1,
		},
		{
			name: "tie breaks toward lower tap id",
			taps: []*Tap{
				mk(7, 5, 0, 40),
				mk(3, 5, 0, 40),
				mk(5, 5, 0, 40),
			},
			wantID: 3,
		},
		{
			name: "all drained",
			taps: []*Tap{
				mk(0, 0, 0, 0),
				mk(1, 5, 5, 10),
			},
			none: true,
		},
		{
			name: "no taps",
			taps: nil,
			none: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Earliest(tt.taps)
			if tt.none {
				if got != nil {
					t.Errorf("Earliest() = tap %d, want nil", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatal("Earliest() = nil, want a tap")
			}
			if got.ID != tt.wantID {
				t.Errorf("Earliest() = tap %d, want tap %d", got.ID, tt.wantID)
			}
		})
	}
}

// TestMergeIsTimeOrdered drives the scheduler and decoder together and
// checks that dispatched samples never go backward in time across taps.
func TestMergeIsTimeOrdered(t *testing.T) {
	tapA := newTap(t, 0, "top.a", manifest.Signal{Name: "a", Width: 1})
	tapB := newTap(t, 1, "top.b", manifest.Signal{Name: "b", Width: 1})

	// Tap A samples at times 5, 8, 20; tap B at times 6, 7, 30.
	// Stream layout per tap: sample, delta, sample, delta, sample.
	tapA.Samples = 3
	tapA.CycleTime = 5
	tapB.Samples = 3
	tapB.CycleTime = 6

	source := &streamSource{words: map[uint32][]uint64{
		0: {1, 2, 0, 11, 1}, // deltas 2 and 11: times 5 -> 8 -> 20
		1: {1, 0, 0, 22, 1}, // deltas 0 and 22: times 6 -> 7 -> 30
	}}
	dec := NewDecoder(source, logging.NopLogger())

	type dispatch struct {
		tapID uint32
		time  uint64
	}
	var order []dispatch

	for tap := Earliest([]*Tap{tapA, tapB}); tap != nil; tap = Earliest([]*Tap{tapA, tapB}) {
		order = append(order, dispatch{tap.ID, tap.CycleTime})
		if err := dec.DecodeSample(tap, &recordWriter{}); err != nil {
			t.Fatalf("DecodeSample failed: %v", err)
		}
	}

	want := []dispatch{
		{0, 5}, {1, 6}, {1, 7}, {0, 8}, {0, 20}, {1, 30},
	}
	if len(order) != len(want) {
		t.Fatalf("dispatched %d samples, want %d: %v", len(order), len(want), order)
	}
	for i, w := range want {
		if order[i] != w {
			t.Errorf("dispatch %d = %+v, want %+v", i, order[i], w)
		}
	}

	for i := 1; i < len(order); i++ {
		if order[i].time < order[i-1].time {
			t.Errorf("merge went backward in time: %v before %v", order[i-1], order[i])
		}
	}
}
