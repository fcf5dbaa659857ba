package device

import (
	"context"
	"sync"
	"time"

	"github.com/pickpoint/go-pickvision/internal/log"
)

// ChannelConfig holds handshake tuning.
type ChannelConfig struct {
	// Dwell is how long the flag tag is held true before clearing.
	// Sized to the PLC scan cadence so the rising edge is observed.
	Dwell time.Duration

	// Tag name overrides. Defaults match the PLC program.
	IndexTag    string
	PressureTag string
	NewDataTag  string
}

// DefaultChannelConfig returns the commissioned handshake settings.
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		Dwell:       500 * time.Millisecond,
		IndexTag:    TagItemIndex,
		PressureTag: TagPressure,
		NewDataTag:  TagNewData,
	}
}

func (c ChannelConfig) withDefaults() ChannelConfig {
	if c.Dwell <= 0 {
		c.Dwell = 500 * time.Millisecond
	}
	if c.IndexTag == "" {
		c.IndexTag = TagItemIndex
	}
	if c.PressureTag == "" {
		c.PressureTag = TagPressure
	}
	if c.NewDataTag == "" {
		c.NewDataTag = TagNewData
	}
	return c
}

// Channel owns the write/pulse handshake against one PLC.
//
// Handshakes are single-flight: a second Send blocks until the prior
// command's flag clear has completed, so the PLC never observes a torn
// write (new pressure with a stale index).
type Channel struct {
	w   TagWriter
	cfg ChannelConfig
	mu  sync.Mutex
}

// NewChannel creates a handshake channel over the given tag writer.
func NewChannel(w TagWriter, cfg ChannelConfig) *Channel {
	return &Channel{w: w, cfg: cfg.withDefaults()}
}

// Send performs one handshake, in strict order: item index, pressure,
// flag assert, dwell, flag clear. A failed step aborts the rest of the
// command and is reported; there is no retry here.
//
// A context cancelled during the dwell still clears the flag so the PLC
// is not left latched, then the context error is returned.
func (c *Channel) Send(ctx context.Context, index int, pressure float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.w.WriteTag(ctx, c.cfg.IndexTag, index); err != nil {
		return &WriteError{Step: StepIndex, Tag: c.cfg.IndexTag, Err: err}
	}
	if err := c.w.WriteTag(ctx, c.cfg.PressureTag, pressure); err != nil {
		return &WriteError{Step: StepPressure, Tag: c.cfg.PressureTag, Err: err}
	}
	if err := c.w.WriteTag(ctx, c.cfg.NewDataTag, true); err != nil {
		return &WriteError{Step: StepAssert, Tag: c.cfg.NewDataTag, Err: err}
	}

	log.Debug("device: command latched", "index", index, "pressure", pressure)

	timer := time.NewTimer(c.cfg.Dwell)
	defer timer.Stop()

	var ctxErr error
	select {
	case <-timer.C:
	case <-ctx.Done():
		ctxErr = ctx.Err()
	}

	// The clear must go out even when ctx is done.
	if err := c.w.WriteTag(context.WithoutCancel(ctx), c.cfg.NewDataTag, false); err != nil {
		return &WriteError{Step: StepClear, Tag: c.cfg.NewDataTag, Err: err}
	}

	return ctxErr
}

// Dwell returns the configured dwell interval.
func (c *Channel) Dwell() time.Duration {
	return c.cfg.Dwell
}
