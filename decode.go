// This file decodes evaluation records from JSON. Engines in the wild emit
// model-generated JSON, so decoding falls back to jsonrepair when the strict
// parse fails.
package aegis

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

func decodeLenient[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return out, fmt.Errorf("unmarshal %T: %w (repair also failed: %v)", out, err, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return out, fmt.Errorf("unmarshal repaired %T: %w", out, err)
		}
	}
	return out, nil
}

// DecodeIntegritySignal parses an integrity signal from JSON, repairing
// malformed input when possible. Absent list fields stay nil while explicit
// empty lists decode to empty non-nil slices, preserving the
// absent-versus-empty distinction the span attributes depend on.
func DecodeIntegritySignal(data []byte) (*IntegritySignal, error) {
	signal, err := decodeLenient[IntegritySignal](data)
	if err != nil {
		return nil, err
	}
	return &signal, nil
}

// DecodeVerificationResult parses a verification result from JSON, repairing
// malformed input when possible.
func DecodeVerificationResult(data []byte) (*VerificationResult, error) {
	result, err := decodeLenient[VerificationResult](data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DecodeCoherenceResult parses a coherence result from JSON, repairing
// malformed input when possible.
func DecodeCoherenceResult(data []byte) (*CoherenceResult, error) {
	result, err := decodeLenient[CoherenceResult](data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DecodeDriftAlerts parses a JSON array of drift alerts, repairing malformed
// input when possible.
func DecodeDriftAlerts(data []byte) ([]DriftAlert, error) {
	return decodeLenient[[]DriftAlert](data)
}
