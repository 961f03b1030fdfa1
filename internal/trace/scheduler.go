package trace

// Earliest returns the pending tap whose next sample occurs soonest in
// logical time, or nil when every tap is drained. Taps that captured no
// samples are never candidates. When two taps share the same cycle time
// the lower tap id wins, keeping the merge order deterministic.
func Earliest(taps []*Tap) *Tap {
	var earliest *Tap
	for _, tap := range taps {
		if !tap.Pending() {
			continue
		}
		if earliest == nil ||
			tap.CycleTime < earliest.CycleTime ||
			(tap.CycleTime == earliest.CycleTime && tap.ID < earliest.ID) {
			earliest = tap
		}
	}
	return earliest
}
