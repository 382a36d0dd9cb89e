package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEnvelope: el backend respondió 2xx pero con success=false.
var ErrEnvelope = errors.New("httpclient: upstream reported failure")

// Envelope es la respuesta estándar del backend de granjas:
// {"success": bool, "data": ..., "message": "..."}.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Bearer arma el header Authorization; token vacío => nil.
func Bearer(token string) map[string]string {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// GetEnvelope hace GET, valida success y decodifica data en out.
func (c *Client) GetEnvelope(ctx context.Context, pathOrURL string, headers map[string]string, out any) error {
	var env Envelope
	if err := c.DoJSON(ctx, http.MethodGet, pathOrURL, headers, nil, &env); err != nil {
		return err
	}
	if !env.Success {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "no message"
		}
		return fmt.Errorf("%w: %s", ErrEnvelope, msg)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal envelope data: %w", err)
	}
	return nil
}
