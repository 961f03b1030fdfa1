// Package vcd renders decoded trace data as a value-change-dump waveform
// file: a header declaring every signal under its reconstructed module
// hierarchy, followed by a strictly time-ordered body interleaving clock
// half-periods with signal value changes.
package vcd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/openhwlab/scopedump/internal/trace"
)

// MaxDelayCycles caps how many idle cycles are rendered as explicit clock
// toggles. Longer gaps collapse to two unknown-valued half-periods followed
// by a jump of the time cursor.
const MaxDelayCycles = 10000

// clockID is the waveform identifier reserved for the synthetic clock.
const clockID = 0

// Writer renders the waveform file. The logical clock runs at twice the
// device time granularity: each device cycle is two half-periods, low then
// high, so consumers see a clock edge at every cycle boundary.
//
// Writer is not safe for concurrent use; the capture pipeline drives it
// from a single goroutine.
type Writer struct {
	w       *bufio.Writer
	curTime uint64
}

// NewWriter creates a Writer rendering to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader emits the version and timescale preamble, the synthetic
// clock declaration under a TOP scope, and one nested scope block per
// hierarchy node with each tap's sub-signals declared at its path's
// terminal scope.
func (w *Writer) WriteHeader(taps []*trace.Tap) error {
	fmt.Fprintln(w.w, "$version Generated by scopedump $end")
	fmt.Fprintln(w.w, "$timescale 1 ns $end")
	fmt.Fprintln(w.w, "$scope module TOP $end")
	fmt.Fprintf(w.w, " $var wire 1 %d clk $end\n", clockID)

	h := buildHierarchy(taps)
	for _, root := range h.roots {
		w.writeScope(h, root, 1)
	}

	fmt.Fprintln(w.w, "$upscope $end")
	fmt.Fprintln(w.w, "enddefinitions $end")
	return w.w.Flush()
}

// writeScope renders one hierarchy node and its children depth-first.
func (w *Writer) writeScope(h *hierarchy, name string, depth int) {
	indent := strings.Repeat(" ", depth)
	fmt.Fprintf(w.w, "%s$scope module %s $end\n", indent, name)

	if tap, ok := h.owners[name]; ok {
		for _, sig := range tap.Signals {
			fmt.Fprintf(w.w, "%s $var wire %d %d %s $end\n", indent, sig.Width, sig.ID, sig.Name)
		}
	}

	for _, child := range h.children[name] {
		w.writeScope(h, child, depth+1)
	}

	fmt.Fprintf(w.w, "%s$upscope $end\n", indent)
}

// WriteValue emits one signal value change at the current time position.
func (w *Writer) WriteValue(bits string, id uint32) error {
	_, err := fmt.Fprintf(w.w, "b%s %d\n", bits, id)
	return err
}

// AdvanceClock toggles the clock from the current time up to target,
// emitting one timestamp and value pair per half-period. A gap wider than
// MaxDelayCycles is collapsed: two unknown half-periods are emitted at the
// current time and the cursor jumps to target - MaxDelayCycles before
// toggling resumes.
func (w *Writer) AdvanceClock(target uint64) error {
	if target <= w.curTime {
		return nil
	}

	if target-w.curTime > MaxDelayCycles {
		fmt.Fprintf(w.w, "#%d\n", w.curTime*2)
		fmt.Fprintf(w.w, "bx %d\n", clockID)
		fmt.Fprintf(w.w, "#%d\n", w.curTime*2+1)
		fmt.Fprintf(w.w, "bx %d\n", clockID)
		w.curTime = target - MaxDelayCycles
	}

	for w.curTime < target {
		fmt.Fprintf(w.w, "#%d\n", w.curTime*2)
		fmt.Fprintf(w.w, "b0 %d\n", clockID)
		fmt.Fprintf(w.w, "#%d\n", w.curTime*2+1)
		if _, err := fmt.Fprintf(w.w, "b1 %d\n", clockID); err != nil {
			return err
		}
		w.curTime++
	}
	return nil
}

// Finish advances the clock one final cycle to flush the trailing edge and
// drains buffered output.
func (w *Writer) Finish() error {
	if err := w.AdvanceClock(w.curTime + 1); err != nil {
		return err
	}
	return w.w.Flush()
}

// Flush drains buffered output without advancing the clock.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// CurTime returns the clock cursor position in device cycles.
func (w *Writer) CurTime() uint64 {
	return w.curTime
}
