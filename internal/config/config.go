// Package config provides environment configuration helpers for
// go-pickvision commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the cell this was commissioned on.
const (
	DefaultGatewayAddr = "192.168.1.20:8000"
	DefaultModbusAddr  = "192.168.1.21:502"
	DefaultPeerAddr    = "192.168.1.10:5000"
	DefaultCameraIndex = 0
	DefaultDwell       = 500 * time.Millisecond
)

// GatewayAddr returns the PLC gateway address from PLC_GATEWAY_ADDR.
// Falls back to the default if not set.
func GatewayAddr() string {
	if addr := os.Getenv("PLC_GATEWAY_ADDR"); addr != "" {
		return addr
	}
	return DefaultGatewayAddr
}

// ModbusAddr returns the Modbus TCP address from PLC_MODBUS_ADDR.
func ModbusAddr() string {
	if addr := os.Getenv("PLC_MODBUS_ADDR"); addr != "" {
		return addr
	}
	return DefaultModbusAddr
}

// PeerAddr returns the robot UDP peer address from ROBOT_PEER_ADDR.
func PeerAddr() string {
	if addr := os.Getenv("ROBOT_PEER_ADDR"); addr != "" {
		return addr
	}
	return DefaultPeerAddr
}

// CameraIndex returns the capture device index from CAMERA_INDEX.
func CameraIndex() int {
	if v := os.Getenv("CAMERA_INDEX"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil && idx >= 0 {
			return idx
		}
	}
	return DefaultCameraIndex
}

// Dwell returns the handshake dwell interval from PLC_DWELL
// (a Go duration string such as "500ms").
func Dwell() time.Duration {
	if v := os.Getenv("PLC_DWELL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultDwell
}
