// Package device communicates actuation commands to the cell PLC.
//
// The PLC program exposes three named tags and latches a new command on
// the rising edge of the flag tag. Byte-level wire encoding is behind the
// TagWriter interface so the handshake logic is transport-agnostic:
// the same Channel drives the HTTP gateway in production and a mock in
// tests.
package device

import (
	"context"
	"errors"
	"fmt"
)

// Tag names matching the PLC program.
const (
	TagItemIndex = "Vision_Item_Index"
	TagPressure  = "Vision_Pressure"
	TagNewData   = "Vision_NewData"
)

// TagWriter is the abstract tag-write capability.
// Writes are synchronous; a nil return means the transport accepted the
// write. No read-back acknowledgment is part of this contract.
type TagWriter interface {
	WriteTag(ctx context.Context, tag string, value any) error
}

// Step identifies a handshake step for error reporting.
type Step string

// Handshake steps, in protocol order.
const (
	StepIndex    Step = "index"
	StepPressure Step = "pressure"
	StepAssert   Step = "assert"
	StepClear    Step = "clear"
)

// ErrGatewayStatus is returned when the PLC gateway rejects a write.
var ErrGatewayStatus = errors.New("device: gateway rejected write")

// WriteError reports a failed handshake step. Remaining steps of the
// same command were not attempted (except the flag clear after a dwell
// cancellation, see Channel.Send).
type WriteError struct {
	Step Step
	Tag  string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("device: %s write (%s): %v", e.Step, e.Tag, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *WriteError) Unwrap() error {
	return e.Err
}
