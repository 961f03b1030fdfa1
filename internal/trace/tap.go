// Package trace decodes packed per-tap capture streams into discrete signal
// values and merges the independently-timed streams into one globally
// time-ordered sequence.
package trace

import (
	"github.com/openhwlab/scopedump/internal/manifest"
)

// SignalVar is one sub-signal together with its assigned waveform
// identifier. Identifiers are globally unique and ascend from 1 across all
// taps; identifier 0 is reserved for the synthetic clock.
type SignalVar struct {
	ID    uint32
	Name  string
	Width uint32
}

// Tap is the mutable decode state for one capture point during a dump.
// CycleTime is the absolute logical time of the tap's next undrained
// sample; it advances by 1 plus the decoded delta after each sample.
// The invariant CurSample <= Samples holds throughout; a tap whose device
// count came back zero keeps Samples == 0 and never enters the merge.
type Tap struct {
	ID      uint32
	Width   uint32
	Path    string
	Signals []SignalVar

	Samples   uint32
	CurSample uint32
	CycleTime uint64
}

// Pending reports whether the tap still has undrained samples.
func (t *Tap) Pending() bool {
	return t.Samples > 0 && t.CurSample < t.Samples
}

// BuildTaps creates runtime tap state from the manifest, assigning waveform
// identifiers to every sub-signal in manifest order.
func BuildTaps(m *manifest.Manifest) []*Tap {
	taps := make([]*Tap, 0, len(m.Taps))
	nextID := uint32(1)

	for _, mt := range m.Taps {
		tap := &Tap{
			ID:      mt.ID,
			Width:   mt.Width,
			Path:    mt.Path,
			Signals: make([]SignalVar, 0, len(mt.Signals)),
		}
		for _, sig := range mt.Signals {
			tap.Signals = append(tap.Signals, SignalVar{
				ID:    nextID,
				Name:  sig.Name,
				Width: sig.Width,
			})
			nextID++
		}
		taps = append(taps, tap)
	}
	return taps
}
