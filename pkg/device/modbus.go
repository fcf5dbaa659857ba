package device

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Modbus TCP framing constants for Write Single Coil.
const (
	modbusProtocolID  = 0x0000
	modbusFuncCoil    = 0x05
	modbusCoilOn      = 0xFF00
	modbusCoilOff     = 0x0000
	modbusRequestLen  = 12 // MBAP (7) + function + address + value
	modbusResponseLen = 12 // echo of the request on success
)

// ModbusCoil writes boolean coils to a PLC over Modbus TCP.
// One request is in flight at a time; the transaction counter ties each
// response to its request.
type ModbusCoil struct {
	addr    string
	unitID  byte
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
	txn  uint16
}

// NewModbusCoil creates a coil writer for the PLC at addr (host:port).
// The connection is established lazily on first write.
func NewModbusCoil(addr string, unitID byte) *ModbusCoil {
	return &ModbusCoil{
		addr:    addr,
		unitID:  unitID,
		timeout: 2 * time.Second,
	}
}

// WriteCoil sets or clears the coil at the given address.
func (m *ModbusCoil) WriteCoil(ctx context.Context, coil uint16, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		d := net.Dialer{Timeout: m.timeout}
		conn, err := d.DialContext(ctx, "tcp", m.addr)
		if err != nil {
			return fmt.Errorf("device: modbus connect %s: %w", m.addr, err)
		}
		m.conn = conn
	}

	m.txn++
	req := m.encodeWriteCoil(m.txn, coil, on)

	deadline := time.Now().Add(m.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := m.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("device: modbus deadline: %w", err)
	}

	if _, err := m.conn.Write(req); err != nil {
		m.reset()
		return fmt.Errorf("device: modbus write coil %d: %w", coil, err)
	}

	// Read the MBAP header first to learn the response length:
	// a success echoes the request, an exception is shorter.
	var header [7]byte
	if _, err := io.ReadFull(m.conn, header[:]); err != nil {
		m.reset()
		return fmt.Errorf("device: modbus response header: %w", err)
	}

	respLen := binary.BigEndian.Uint16(header[4:6])
	if respLen < 2 || respLen > 253 {
		m.reset()
		return fmt.Errorf("device: modbus malformed response length %d", respLen)
	}

	body := make([]byte, respLen-1) // unit ID is part of the MBAP read
	if _, err := io.ReadFull(m.conn, body); err != nil {
		m.reset()
		return fmt.Errorf("device: modbus response body: %w", err)
	}

	if txn := binary.BigEndian.Uint16(header[0:2]); txn != m.txn {
		m.reset()
		return fmt.Errorf("device: modbus transaction mismatch: sent %d, got %d", m.txn, txn)
	}

	if body[0] == modbusFuncCoil|0x80 {
		return fmt.Errorf("device: modbus exception %#02x writing coil %d", body[1], coil)
	}
	if body[0] != modbusFuncCoil {
		m.reset()
		return fmt.Errorf("device: modbus unexpected function %#02x", body[0])
	}

	return nil
}

// encodeWriteCoil builds a Write Single Coil request frame.
func (m *ModbusCoil) encodeWriteCoil(txn, coil uint16, on bool) []byte {
	frame := make([]byte, modbusRequestLen)
	binary.BigEndian.PutUint16(frame[0:2], txn)
	binary.BigEndian.PutUint16(frame[2:4], modbusProtocolID)
	binary.BigEndian.PutUint16(frame[4:6], 6) // unit + function + address + value
	frame[6] = m.unitID
	frame[7] = modbusFuncCoil
	binary.BigEndian.PutUint16(frame[8:10], coil)
	if on {
		binary.BigEndian.PutUint16(frame[10:12], modbusCoilOn)
	} else {
		binary.BigEndian.PutUint16(frame[10:12], modbusCoilOff)
	}
	return frame
}

// reset drops the connection so the next write redials.
func (m *ModbusCoil) reset() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

// Close closes the PLC connection.
func (m *ModbusCoil) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}
