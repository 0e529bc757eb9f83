package types

import (
	"encoding/json"
	"fmt"
)

// metadataVersion is the current on-disk metadata encoding version.
const metadataVersion = 1

// metadataEnvelope wraps a metadata map with an encoding version so the
// stored text blob can evolve without breaking old readers.
type metadataEnvelope struct {
	Version int                    `json:"v"`
	Data    map[string]interface{} `json:"data"`
}

// EncodeMetadata serializes a metadata map into its versioned text form.
// A nil map encodes as an empty object.
func EncodeMetadata(m map[string]interface{}) (string, error) {
	if m == nil {
		m = map[string]interface{}{}
	}
	raw, err := json.Marshal(metadataEnvelope{Version: metadataVersion, Data: m})
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}

// DecodeMetadata parses the stored text form back into a map. A bare JSON
// object without the version envelope is accepted for data written by other
// writers. Empty input decodes to an empty map.
func DecodeMetadata(s string) (map[string]interface{}, error) {
	if s == "" {
		return map[string]interface{}{}, nil
	}
	var env metadataEnvelope
	if err := json.Unmarshal([]byte(s), &env); err == nil && env.Version > 0 {
		if env.Data == nil {
			env.Data = map[string]interface{}{}
		}
		return env.Data, nil
	}
	var bare map[string]interface{}
	if err := json.Unmarshal([]byte(s), &bare); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if bare == nil {
		bare = map[string]interface{}{}
	}
	return bare, nil
}
