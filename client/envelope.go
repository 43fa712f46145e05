package client

import (
	"bytes"
	"encoding/json"

	"github.com/Awatif2003/marinesafe/core"
)

// listEnvelope is the backend's optional wrapper for list responses. Both
// `{"data": [...]}` and a raw array are valid; anything else is rejected at
// the boundary instead of probed ad hoc.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, core.NewBadInputError("client: empty response body", nil)
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, core.NewBadInputError("client: malformed list response", nil)
		}
		return items, nil
	}

	var envelope listEnvelope[T]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, core.NewBadInputError("client: malformed envelope response", nil)
	}
	if envelope.Data == nil {
		return nil, core.NewBadInputError("client: response envelope has no data field", nil)
	}
	return envelope.Data, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, core.NewBadInputError("client: malformed object response", nil)
	}
	return out, nil
}
