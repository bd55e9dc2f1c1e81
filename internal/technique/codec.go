package technique

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the wire form: {"type": "drop_set", "config": {...}}.
type envelope struct {
	Type   Type            `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Decode parses a technique assignment. Unknown types and malformed configs
// are rejected here, at the boundary, so Expand only sees valid variants.
func Decode(data []byte) (Technique, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing technique: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("technique type is required")
	}
	return decodeVariant(env.Type, env.Config)
}

// Encode renders a technique in the envelope form Decode accepts.
func Encode(t Technique) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("encoding technique: nil technique")
	}
	cfg, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding %s config: %w", t.Type(), err)
	}
	return json.Marshal(envelope{Type: t.Type(), Config: cfg})
}

func decodeVariant(t Type, raw json.RawMessage) (Technique, error) {
	switch t {
	case TypeDropSet:
		return decodeConfig[DropSet](t, raw)
	case TypeRestPause:
		return decodeConfig[RestPause](t, raw)
	case TypeMyoReps:
		return decodeConfig[MyoReps](t, raw)
	case TypeClusterSet:
		return decodeConfig[ClusterSet](t, raw)
	case TypeFST7:
		return decodeConfig[FST7](t, raw)
	case TypeSuperset:
		return decodeConfig[Superset](t, raw)
	case TypeGiantSet:
		return decodeConfig[GiantSet](t, raw)
	case TypeTopSetBackoff:
		return decodeConfig[TopSetBackoff](t, raw)
	case TypePyramid:
		return decodeConfig[Pyramid](t, raw)
	case TypeMechanicalDropSet:
		return decodeConfig[MechanicalDropSet](t, raw)
	case TypeLoadedStretching:
		return decodeConfig[LoadedStretching](t, raw)
	case TypeForcedReps:
		return decodeConfig[ForcedReps](t, raw)
	case TypePreExhaust:
		return decodeConfig[PreExhaust](t, raw)
	case TypeLengthenedPartials:
		return decodeConfig[LengthenedPartials](t, raw)
	}
	return nil, fmt.Errorf("unknown technique type %q", t)
}

func decodeConfig[T Technique](t Type, raw json.RawMessage) (Technique, error) {
	var v T
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return v, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parsing %s config: %w", t, err)
	}
	return v, nil
}
