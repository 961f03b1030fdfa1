// Package replay provides a file-backed register transport that serves
// recorded device read responses. It lets the capture pipeline run offline
// against a register trace taken from real hardware, and gives tests a
// deterministic device.
//
// The replay file is plain text: one register read value per line, in any
// Go integer literal base (decimal, 0x hex, 0b binary). Blank lines and
// lines starting with '#' are ignored.
// Register writes are accepted and discarded; the protocol's read sequence
// is deterministic, so a linear recording replays exactly.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/openhwlab/scopedump/internal/errors"
)

// Transport serves recorded read values in order. It implements
// regproto.Transport and is safe for concurrent use, although the capture
// pipeline drives it from a single goroutine.
type Transport struct {
	mu     sync.Mutex
	reads  []uint64
	cursor int
}

// New creates a Transport serving the given read values.
func New(reads []uint64) *Transport {
	return &Transport{reads: reads}
}

// Open loads a replay file from disk.
func Open(path string) (*Transport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open replay file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("replay file %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a replay recording from r.
func Parse(r io.Reader) (*Transport, error) {
	var reads []uint64

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		value, err := strconv.ParseUint(line, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid register value %q", lineNo, line)
		}
		reads = append(reads, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return New(reads), nil
}

// WriteRegister accepts and discards a command word.
func (t *Transport) WriteRegister(value uint64) error {
	return nil
}

// ReadRegister serves the next recorded read value. Reading past the end
// of the recording is a protocol failure.
func (t *Transport) ReadRegister() (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor >= len(t.reads) {
		return 0, errors.New("replay recording exhausted")
	}
	value := t.reads[t.cursor]
	t.cursor++
	return value, nil
}

// Remaining returns how many recorded reads have not been served yet.
func (t *Transport) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.reads) - t.cursor
}
