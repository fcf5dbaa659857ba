package actuation

import (
	"context"

	"github.com/pickpoint/go-pickvision/internal/log"
	"github.com/pickpoint/go-pickvision/pkg/telemetry"
)

// DeviceSink is the PLC handshake capability the dispatcher needs.
type DeviceSink interface {
	Send(ctx context.Context, index int, pressure float64) error
}

// DatagramSink is the best-effort telemetry capability.
type DatagramSink interface {
	Send(r telemetry.Record) error
}

// Dispatcher fans one command out to the enabled sinks. The two sinks
// are independent: a device failure never suppresses the datagram and
// vice versa. Every command lands in the session summary either way.
type Dispatcher struct {
	device   DeviceSink   // nil disables PLC output
	datagram DatagramSink // nil disables telemetry output
	summary  *Summary

	// OnDispatch, when set, observes every dispatched command and the
	// device error (nil on success). Used by the dashboard feed.
	OnDispatch func(cmd Command, deviceErr error)
}

// NewDispatcher creates a dispatcher. Either sink may be nil.
func NewDispatcher(device DeviceSink, datagram DatagramSink, summary *Summary) *Dispatcher {
	return &Dispatcher{device: device, datagram: datagram, summary: summary}
}

// Dispatch delivers one command. The returned error is the device
// handshake outcome; it is reported per event and is non-fatal to the
// pipeline. Datagram failures are logged and swallowed here.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	d.summary.Append(cmd.Label, cmd.Pressure)

	var deviceErr error
	if d.device != nil {
		deviceErr = d.device.Send(ctx, cmd.Index, cmd.Pressure)
		if deviceErr != nil {
			log.Error("device dispatch failed", "command", cmd.String(), "err", deviceErr)
		} else {
			log.Info("sent to PLC", "label", cmd.Label, "index", cmd.Index, "pressure", cmd.Pressure)
		}
	}

	if d.datagram != nil {
		rec := telemetry.NewRecord(cmd.Label, cmd.Confidence, cmd.Center)
		if err := d.datagram.Send(rec); err != nil {
			// Best-effort sink: never propagates
			log.Warn("telemetry send failed", "label", cmd.Label, "err", err)
		}
	}

	if d.OnDispatch != nil {
		d.OnDispatch(cmd, deviceErr)
	}

	return deviceErr
}

// Summary returns the session summary.
func (d *Dispatcher) Summary() *Summary {
	return d.summary
}
