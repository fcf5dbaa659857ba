package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pickpoint/go-pickvision/internal/httpc"
)

// GatewayWriter writes tags through the cell's PLC gateway HTTP API.
// The gateway speaks the industrial protocol on the far side; here a
// write is one JSON POST that succeeds or fails as a whole.
type GatewayWriter struct {
	baseURL string
	client  *http.Client
}

// Ensure GatewayWriter implements TagWriter
var _ TagWriter = (*GatewayWriter)(nil)

// NewGatewayWriter creates a tag writer against the gateway at addr
// (host:port).
func NewGatewayWriter(addr string) *GatewayWriter {
	return &GatewayWriter{
		baseURL: fmt.Sprintf("http://%s", addr),
		client:  httpc.Client,
	}
}

// WriteTag posts one tag write to the gateway.
func (g *GatewayWriter) WriteTag(ctx context.Context, tag string, value any) error {
	payload := map[string]any{
		"tag":   tag,
		"value": value,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal tag write: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/tags/write", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build tag write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("tag write request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrGatewayStatus, tag, resp.StatusCode)
	}

	return nil
}
