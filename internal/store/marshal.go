package store

import (
	"fmt"

	"github.com/roach88/callir/internal/ir"
)

// marshalIR converts an IR value to canonical JSON TEXT for storage.
func marshalIR(v ir.Value) (string, error) {
	data, err := ir.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal ir: %w", err)
	}
	return string(data), nil
}

// unmarshalIR parses stored TEXT back into an IR value.
func unmarshalIR(data string) (ir.Value, error) {
	v, err := ir.Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal ir: %w", err)
	}
	return v, nil
}
