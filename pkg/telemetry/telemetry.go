// Package telemetry streams detection records to a network peer.
//
// This is a best-effort sink: one JSON datagram per event, no retry, no
// ordering, no delivery confirmation. It exists for visualization and
// robot-side logging, never for control.
package telemetry

import (
	"encoding/json"
	"fmt"
	"image"
	"net"
	"time"
)

// Record is the wire format the robot peer expects.
type Record struct {
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence"`
	CX         int     `json:"cx"`
	CY         int     `json:"cy"`
}

// NewRecord builds a record from a labeled sighting and its centroid.
func NewRecord(object string, confidence float64, center image.Point) Record {
	return Record{
		Object:     object,
		Confidence: confidence,
		CX:         center.X,
		CY:         center.Y,
	}
}

// UDPSink sends records as JSON datagrams to a fixed peer.
type UDPSink struct {
	conn    net.Conn
	timeout time.Duration
}

// NewUDPSink dials the peer at addr (host:port). UDP "dialing" just
// fixes the destination; nothing is exchanged until the first send.
func NewUDPSink(addr string) (*UDPSink, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial %s: %w", addr, err)
	}
	return &UDPSink{conn: conn, timeout: 100 * time.Millisecond}, nil
}

// Send transmits one record. The write deadline bounds the attempt so a
// stuck socket cannot stall the detection loop.
func (s *UDPSink) Send(r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("telemetry: marshal record: %w", err)
	}

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return fmt.Errorf("telemetry: set deadline: %w", err)
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("telemetry: send: %w", err)
	}
	return nil
}

// Close releases the socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}
