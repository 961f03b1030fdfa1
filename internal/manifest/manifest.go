// Package manifest loads the tap manifest describing the trace capture
// points wired into the device. The manifest is produced by the hardware
// build step and consumed twice per session: at start for width validation
// and at stop for the full decode.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/openhwlab/scopedump/internal/errors"
)

// maxTapID is the highest tap id addressable over the register protocol,
// where the tap id occupies bits 3-10 of the command word.
const maxTapID = 255

// Signal is one named, fixed-width component of a tap's sample word.
// In the manifest file a signal is a positional two-element array:
// ["name", width].
type Signal struct {
	Name  string
	Width uint32
}

// UnmarshalJSON decodes the positional [name, width] pair form.
func (s *Signal) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("signal entry must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.Name); err != nil {
		return fmt.Errorf("signal name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &s.Width); err != nil {
		return fmt.Errorf("signal width: %w", err)
	}
	return nil
}

// MarshalJSON encodes the signal back into its positional pair form.
func (s Signal) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Name, s.Width})
}

// Tap describes one trace capture point: its protocol address, the total
// bits produced per sample, its dotted hierarchical path, and the ordered
// sub-signals that make up each sample word.
type Tap struct {
	ID      uint32   `json:"id"`
	Width   uint32   `json:"width"`
	Path    string   `json:"path"`
	Signals []Signal `json:"signals"`
}

// Manifest is the full set of taps wired into the device.
type Manifest struct {
	Taps []Tap `json:"taps"`
}

// Load reads and validates the manifest at the given path.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.NewManifestError("manifest path is empty", errors.ErrManifestNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewManifestError("cannot open manifest", errors.ErrManifestNotFound).WithPath(path)
		}
		return nil, errors.NewManifestError("cannot open manifest", err).WithPath(path)
	}
	defer f.Close()

	var m Manifest
	dec := json.NewDecoder(f)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.NewManifestError("cannot parse manifest",
			errors.Join(errors.ErrManifestInvalid, err)).WithPath(path)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural invariants: unique addressable tap ids,
// non-empty paths, and sub-signal widths summing to each tap's width.
func (m *Manifest) Validate() error {
	seen := make(map[uint32]bool, len(m.Taps))

	for i := range m.Taps {
		tap := &m.Taps[i]

		if tap.ID > maxTapID {
			return errors.NewValidationError("tap id exceeds protocol address range").
				WithField("id").WithValue(tap.ID)
		}
		if seen[tap.ID] {
			return errors.NewValidationError("duplicate tap id").
				WithField("id").WithValue(tap.ID)
		}
		seen[tap.ID] = true

		if tap.Path == "" {
			return errors.NewValidationError("tap path must not be empty").
				WithField("path").WithValue(tap.ID)
		}
		if tap.Width == 0 {
			return errors.NewValidationError("tap width must be positive").
				WithField("width").WithValue(tap.ID)
		}
		if len(tap.Signals) == 0 {
			return errors.NewValidationError("tap must declare at least one signal").
				WithField("signals").WithValue(tap.ID)
		}

		var sum uint32
		for _, sig := range tap.Signals {
			if sig.Width == 0 {
				return errors.NewValidationError("signal width must be positive").
					WithField("signals").WithValue(sig.Name)
			}
			sum += sig.Width
		}
		if sum != tap.Width {
			return errors.NewValidationError("signal widths do not sum to tap width").
				WithField("width").WithValue(sum)
		}
	}

	return nil
}
