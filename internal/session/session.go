// Package session implements the capture session controller: a two-phase
// state machine that arms the device's trace taps, tracks session lifetime
// with an auto-stop watcher, and on stop drains every tap into a
// time-ordered waveform dump.
package session

import (
	"os"
	"sync"
	"time"

	"github.com/openhwlab/scopedump/internal/config"
	"github.com/openhwlab/scopedump/internal/errors"
	"github.com/openhwlab/scopedump/internal/logging"
	"github.com/openhwlab/scopedump/internal/manifest"
	"github.com/openhwlab/scopedump/internal/regproto"
	"github.com/openhwlab/scopedump/internal/trace"
	"github.com/openhwlab/scopedump/internal/vcd"
)

// TimeUnset is the sentinel start/stop time meaning "do not program this
// bound on the device".
const TimeUnset = ^uint64(0)

// State is the session lifecycle phase.
type State int

// Session states. A session moves Idle -> Running -> Stopped; Stopped is
// terminal.
const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TapSummary reports one tap's contribution to a finished dump.
type TapSummary struct {
	ID      uint32
	Path    string
	Samples uint32
}

// Summary reports the outcome of a finished dump.
type Summary struct {
	Output string
	Cycles uint64
	Taps   []TapSummary
}

// Session owns one capture lifecycle against a single device. All protocol
// I/O, decoding, and output writing happen on the caller's goroutine; the
// only background work is the auto-stop timer, which does no I/O itself.
//
// The stop transition is guarded so that a racing explicit Stop and the
// timer-triggered Stop cannot both drain the device: the first caller wins
// and later calls return nil immediately.
type Session struct {
	cfg    *config.Config
	log    *logging.Logger
	client *regproto.Client

	timeout time.Duration

	mu        sync.Mutex
	state     State
	stopTimer *time.Timer
	summary   *Summary
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout overrides the configured auto-stop timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// New creates a session speaking to the device over the given transport.
func New(transport regproto.Transport, cfg *config.Config, log *logging.Logger, opts ...Option) (*Session, error) {
	client, err := regproto.NewClient(transport)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NopLogger()
	}

	s := &Session{
		cfg:     cfg,
		log:     log,
		client:  client,
		timeout: cfg.Timeout(),
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Summary returns the dump summary, or nil before a successful Stop.
func (s *Session) Summary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Start validates the manifest against the device and begins recording.
//
// Every tap's device-reported width must match the manifest; a mismatch is
// fatal configuration drift, not a warning. When the configuration carries
// a capture depth it is programmed into every tap, and startTime/stopTime
// are programmed unless they are TimeUnset. On success the session is
// running and an auto-stop watcher fires Stop after the configured timeout.
func (s *Session) Start(startTime, stopTime uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return errors.Wrapf(errors.ErrSessionRunning, "start in state %s", s.state)
	}

	m, err := manifest.Load(s.cfg.ManifestPath)
	if err != nil {
		return err
	}

	for _, tap := range m.Taps {
		devWidth, err := s.client.GetWidth(tap.ID)
		if err != nil {
			return err
		}
		if devWidth != uint64(tap.Width) {
			return errors.NewValidationError("device width disagrees with manifest").
				WithField("width").
				WithValue(devWidth).
				WithCause(errors.Wrapf(errors.ErrWidthMismatch,
					"tap %d: actual=%d expected=%d", tap.ID, devWidth, tap.Width))
		}
	}

	if s.cfg.Depth != 0 {
		s.log.Info("programming capture depth", "depth", s.cfg.Depth)
		for _, tap := range m.Taps {
			if err := s.client.SetDepth(tap.ID, s.cfg.Depth); err != nil {
				return err
			}
		}
	}

	if stopTime != TimeUnset {
		s.log.Info("programming stop time", "time", stopTime)
		for _, tap := range m.Taps {
			if err := s.client.SetStop(tap.ID, stopTime); err != nil {
				return err
			}
		}
	}

	if startTime != TimeUnset {
		s.log.Info("programming start time", "time", startTime)
		for _, tap := range m.Taps {
			if err := s.client.SetStart(tap.ID, startTime); err != nil {
				return err
			}
		}
	}

	s.state = StateRunning
	s.stopTimer = time.AfterFunc(s.timeout, func() {
		s.log.Warn("auto-stop timeout reached", "timeout", s.timeout)
		if err := s.Stop(); err != nil {
			s.log.Error("auto-stop failed", "error", err)
		}
	})

	s.log.Info("recording started", "taps", len(m.Taps), "timeout", s.timeout)
	return nil
}

// Stop halts recording and dumps every tap's capture data to the output
// waveform file. Only the first caller performs the transition; later
// calls, including the auto-stop watcher, return nil without touching the
// device. A protocol error mid-drain aborts immediately and leaves the
// device and any partial output file as they are.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return nil
	}
	s.state = StateStopped
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}

	// The manifest is re-read rather than cached from Start: start and
	// stop tolerate being issued by independent invocations.
	m, err := manifest.Load(s.cfg.ManifestPath)
	if err != nil {
		return err
	}
	taps := trace.BuildTaps(m)

	s.log.Info("stop recording")
	for _, tap := range taps {
		if err := s.client.SetStop(tap.ID, 0); err != nil {
			return err
		}
	}

	s.log.Info("loading trace info")
	for _, tap := range taps {
		count, err := s.client.GetCount(tap.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			continue
		}

		start, err := s.client.GetStart(tap.ID)
		if err != nil {
			return err
		}
		delta, err := s.client.GetData(tap.ID)
		if err != nil {
			return err
		}

		tap.Samples = uint32(count)
		tap.CycleTime = 1 + start + delta

		s.log.Info("tap ready",
			"tap", tap.ID,
			"width", tap.Width,
			"samples", tap.Samples,
			"start_time", tap.CycleTime,
			"path", tap.Path)
	}

	summary, err := s.dump(taps)
	if err != nil {
		return err
	}
	s.summary = summary

	s.log.Info("trace dump done", "output", summary.Output, "cycles", summary.Cycles)
	return nil
}

// dump renders the waveform file from the loaded tap states.
func (s *Session) dump(taps []*trace.Tap) (*Summary, error) {
	f, err := os.Create(s.cfg.Out)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create output file")
	}
	defer f.Close()

	w := vcd.NewWriter(f)

	s.log.Info("dump header")
	if err := w.WriteHeader(taps); err != nil {
		return nil, errors.Wrap(err, "cannot write header")
	}

	s.log.Info("dump taps")
	dec := trace.NewDecoder(s.client, s.log)

	if tap := trace.Earliest(taps); tap != nil {
		for tap != nil {
			if err := w.AdvanceClock(tap.CycleTime); err != nil {
				return nil, errors.Wrap(err, "cannot advance clock")
			}
			if err := dec.DecodeSample(tap, w); err != nil {
				return nil, err
			}
			tap = trace.Earliest(taps)
		}
		if err := w.Finish(); err != nil {
			return nil, errors.Wrap(err, "cannot finish dump")
		}
	}

	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "cannot close output file")
	}

	summary := &Summary{
		Output: s.cfg.Out,
		Cycles: w.CurTime(),
	}
	for _, tap := range taps {
		summary.Taps = append(summary.Taps, TapSummary{
			ID:      tap.ID,
			Path:    tap.Path,
			Samples: tap.Samples,
		})
	}
	return summary, nil
}
