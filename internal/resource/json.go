package resource

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire shape for a single resource entry: a type
// discriminator plus the kind-specific payload, mirroring the teacher's
// artifact envelope (internal/artifact/json.go in the source this is
// adapted from).
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalManifest encodes an ordered list of resources as a JSON array of
// discriminated envelopes.
func MarshalManifest(resources []Resource) ([]byte, error) {
	envelopes := make([]envelope, 0, len(resources))
	for _, r := range resources {
		payload, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("resource: marshal %s %q: %w", r.ResourceType(), r.ResourceID(), err)
		}
		envelopes = append(envelopes, envelope{Type: r.ResourceType(), Payload: payload})
	}
	return json.Marshal(envelopes)
}

// UnmarshalManifest decodes a JSON array of discriminated envelopes back
// into concrete Resource values.
func UnmarshalManifest(data []byte) ([]Resource, error) {
	var envelopes []envelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("resource: decode manifest: %w", err)
	}

	resources := make([]Resource, 0, len(envelopes))
	for _, e := range envelopes {
		r, err := decodeOne(e)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, nil
}

func decodeOne(e envelope) (Resource, error) {
	switch e.Type {
	case "class":
		var r ClassResource
		if err := json.Unmarshal(e.Payload, &r); err != nil {
			return nil, fmt.Errorf("resource: decode class resource: %w", err)
		}
		return &r, nil
	case "archive":
		var r ArchiveResource
		if err := json.Unmarshal(e.Payload, &r); err != nil {
			return nil, fmt.Errorf("resource: decode archive resource: %w", err)
		}
		return &r, nil
	case "file":
		var r FileResource
		if err := json.Unmarshal(e.Payload, &r); err != nil {
			return nil, fmt.Errorf("resource: decode file resource: %w", err)
		}
		return &r, nil
	default:
		return nil, fmt.Errorf("resource: unknown resource type %q", e.Type)
	}
}
