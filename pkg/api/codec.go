package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Codec carries plain Go structs as JSON under the codec name "json", so
// browsers and curl can call the service with Content-Type application/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
