// Package regproto implements the register command protocol used to address
// trace taps on the device. Every logical operation is one command word
// written to the device register, optionally followed by exactly one read;
// the protocol is strictly request/response and never pipelined.
//
// Command word layout:
//
//	bits 0-2   opcode
//	bits 3-10  tap id
//	bits 11+   payload (depth, start time, stop time)
//
// The package owns no device state. All I/O goes through the injected
// [Transport] pair; any transport failure aborts the caller's operation.
package regproto

import (
	"github.com/openhwlab/scopedump/internal/errors"
)

// Opcode selects the device-side operation encoded in bits 0-2 of a
// command word.
type Opcode uint64

// Command opcodes understood by the tap controller.
const (
	OpGetWidth Opcode = 0
	OpGetCount Opcode = 1
	OpGetStart Opcode = 2
	OpGetData  Opcode = 3
	OpSetStart Opcode = 4
	OpSetStop  Opcode = 5
	OpSetDepth Opcode = 6
)

// String returns the protocol name of the opcode.
func (op Opcode) String() string {
	switch op {
	case OpGetWidth:
		return "get width"
	case OpGetCount:
		return "get count"
	case OpGetStart:
		return "get start"
	case OpGetData:
		return "get data"
	case OpSetStart:
		return "set start"
	case OpSetStop:
		return "set stop"
	case OpSetDepth:
		return "set depth"
	default:
		return "unknown"
	}
}

// Command word field positions.
const (
	tapIDShift   = 3
	payloadShift = 11
	tapIDMask    = 0xFF
	opcodeMask   = 0x7
)

// Transport is the injected register read/write pair. Implementations talk
// to the actual device (or a recording of one); a non-nil error from either
// operation is a protocol failure and is never retried.
type Transport interface {
	// WriteRegister writes one command word to the device register.
	WriteRegister(value uint64) error
	// ReadRegister reads one response word from the device register.
	ReadRegister() (uint64, error)
}

// Encode builds a command word from an opcode, tap id, and payload.
func Encode(op Opcode, tapID uint32, payload uint64) uint64 {
	return payload<<payloadShift | uint64(tapID)<<tapIDShift | uint64(op)
}

// Decode splits a command word into its opcode, tap id, and payload fields.
func Decode(word uint64) (op Opcode, tapID uint32, payload uint64) {
	return Opcode(word & opcodeMask), uint32(word >> tapIDShift & tapIDMask), word >> payloadShift
}

// Client issues tap-scoped commands over a Transport.
type Client struct {
	transport Transport
}

// NewClient creates a protocol client over the given transport.
func NewClient(transport Transport) (*Client, error) {
	if transport == nil {
		return nil, errors.ErrNilTransport
	}
	return &Client{transport: transport}, nil
}

// get issues a write-then-read command pair and returns the response word.
func (c *Client) get(op Opcode, tapID uint32) (uint64, error) {
	if err := c.transport.WriteRegister(Encode(op, tapID, 0)); err != nil {
		return 0, errors.NewProtocolError(op.String(), err).WithTap(tapID)
	}
	value, err := c.transport.ReadRegister()
	if err != nil {
		return 0, errors.NewProtocolError(op.String(), err).WithTap(tapID)
	}
	return value, nil
}

// set issues a write-only command carrying a payload.
func (c *Client) set(op Opcode, tapID uint32, payload uint64) error {
	if err := c.transport.WriteRegister(Encode(op, tapID, payload)); err != nil {
		return errors.NewProtocolError(op.String(), err).WithTap(tapID)
	}
	return nil
}

// GetWidth returns the device-reported sample width of the tap in bits.
func (c *Client) GetWidth(tapID uint32) (uint64, error) {
	return c.get(OpGetWidth, tapID)
}

// GetCount returns the number of captured samples pending on the tap.
func (c *Client) GetCount(tapID uint32) (uint64, error) {
	return c.get(OpGetCount, tapID)
}

// GetStart returns the absolute device time of the tap's first sample.
func (c *Client) GetStart(tapID uint32) (uint64, error) {
	return c.get(OpGetStart, tapID)
}

// GetData drains the next 64-bit word from the tap's capture stream.
// The same command also returns inter-sample time deltas; the device
// interleaves them with sample data at sample boundaries.
func (c *Client) GetData(tapID uint32) (uint64, error) {
	return c.get(OpGetData, tapID)
}

// SetStart programs the absolute device time at which capture begins.
func (c *Client) SetStart(tapID uint32, time uint64) error {
	return c.set(OpSetStart, tapID, time)
}

// SetStop programs the absolute device time at which capture ends.
// A stop time of zero halts capture immediately.
func (c *Client) SetStop(tapID uint32, time uint64) error {
	return c.set(OpSetStop, tapID, time)
}

// SetDepth programs the tap's capture depth in samples.
func (c *Client) SetDepth(tapID uint32, depth uint32) error {
	return c.set(OpSetDepth, tapID, uint64(depth))
}
