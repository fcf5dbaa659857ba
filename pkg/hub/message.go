package hub

import "github.com/gofiber/websocket/v2"

// Message is one broadcast payload.
type Message struct {
	Type int // websocket message type
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON as a text message.
func NewJSONMessage(data []byte) Message {
	return Message{Type: websocket.TextMessage, Data: data}
}
