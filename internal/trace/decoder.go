package trace

import (
	"github.com/openhwlab/scopedump/internal/logging"
)

// sampleFlushInterval is the sample cadence for progress logging and
// output flushing during long drains.
const sampleFlushInterval = 100

// DataSource drains 64-bit words from a tap's capture stream. The device
// interleaves inter-sample time deltas with sample data; the decoder knows
// which is which from its position in the stream.
type DataSource interface {
	GetData(tapID uint32) (uint64, error)
}

// ValueWriter receives decoded signal values in emission order.
type ValueWriter interface {
	WriteValue(bits string, id uint32) error
}

// flusher is implemented by writers that buffer output.
type flusher interface {
	Flush() error
}

// Decoder unpacks one tap sample at a time from the device data register.
//
// Bits arrive least-significant-bit-first out of each 64-bit word, with a
// fresh word fetched exactly every 64 bits regardless of sub-signal
// boundaries. Decoding starts at the LAST sub-signal and fills each
// signal's binary string backward, so the first bit extracted lands in the
// string's lowest-order position.
type Decoder struct {
	source DataSource
	log    *logging.Logger
}

// NewDecoder creates a decoder reading from the given source.
func NewDecoder(source DataSource, log *logging.Logger) *Decoder {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Decoder{source: source, log: log}
}

// DecodeSample drains exactly one full-width sample from the tap, emitting
// each sub-signal's value as soon as its bits are complete. On the sample
// boundary the tap's cursor advances; if samples remain, one more data word
// is fetched as the inter-sample delta and the tap's cycle time moves to
// 1 + delta past the current sample.
func (d *Decoder) DecodeSample(tap *Tap, out ValueWriter) error {
	sigIdx := len(tap.Signals) - 1
	sig := tap.Signals[sigIdx]
	buf := make([]byte, sig.Width)

	var (
		signalOffset uint32
		sampleOffset uint32
	)

	for sampleOffset != tap.Width {
		word, err := d.source.GetData(tap.ID)
		if err != nil {
			return err
		}

		for {
			wordOffset := sampleOffset % 64
			bit := byte('0')
			if word>>wordOffset&1 == 1 {
				bit = '1'
			}
			buf[sig.Width-signalOffset-1] = bit
			signalOffset++
			sampleOffset++

			if signalOffset == sig.Width {
				if err := out.WriteValue(string(buf), sig.ID); err != nil {
					return err
				}
				if sampleOffset == tap.Width {
					// end-of-sample
					tap.CurSample++
					if tap.CurSample != tap.Samples {
						delta, err := d.source.GetData(tap.ID)
						if err != nil {
							return err
						}
						tap.CycleTime += 1 + delta
						if tap.CurSample%sampleFlushInterval == 0 {
							d.flushProgress(tap, out)
						}
					}
					break
				}
				signalOffset = 0
				sigIdx--
				sig = tap.Signals[sigIdx]
				buf = make([]byte, sig.Width)
			}

			if sampleOffset%64 == 0 {
				break
			}
		}
	}

	return nil
}

// flushProgress pushes buffered output to disk and logs drain progress.
// Diagnostic only; decode state is unaffected.
func (d *Decoder) flushProgress(tap *Tap, out ValueWriter) {
	if f, ok := out.(flusher); ok {
		if err := f.Flush(); err != nil {
			d.log.Warn("output flush failed", "tap", tap.ID, "error", err)
			return
		}
	}
	d.log.Info("drain progress",
		"tap", tap.ID,
		"samples", tap.CurSample,
		"total", tap.Samples,
		"next_time", tap.CycleTime)
}
