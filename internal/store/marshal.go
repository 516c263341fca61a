package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/pancake/internal/ir"
)

// marshalParams serializes a request to canonical JSON for the params column.
func marshalParams(req ir.RunRequest) (string, error) {
	data, err := ir.MarshalCanonical(req.Params())
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// unmarshalParams parses the params column back into a request.
// Workers is not persisted in params and is left zero.
func unmarshalParams(data string) (ir.RunRequest, error) {
	var req ir.RunRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return ir.RunRequest{}, fmt.Errorf("unmarshal params: %w", err)
	}
	return req, nil
}
