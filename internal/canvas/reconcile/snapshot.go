package reconcile

import (
	"bytes"
	"encoding/json"

	"dfuse/internal/graph"
)

// Snapshot is what the reconciler remembers between passes: which node ids it
// has seen and the serialized payload each carried. It is replaced wholesale
// on every pass and never persisted; a canvas starts from EmptySnapshot.
type Snapshot struct {
	LastSeenNodeIDs  map[string]struct{}
	LastSeenPayloads map[string]json.RawMessage
}

func EmptySnapshot() Snapshot {
	return Snapshot{
		LastSeenNodeIDs:  make(map[string]struct{}),
		LastSeenPayloads: make(map[string]json.RawMessage),
	}
}

func (s Snapshot) seen(id string) bool {
	_, ok := s.LastSeenNodeIDs[id]
	return ok
}

// payloadJSON serializes only the type-specific payload of a node. Position
// is deliberately excluded: moving a node does not count as a change for
// update detection. Payloads are plain, cycle-free data, so a marshal
// failure is a programming error and surfaces as a nil (always-unequal)
// serialization.
func payloadJSON(node graph.Node) json.RawMessage {
	var v any
	switch node.Type {
	case graph.NodeTypeChart:
		v = node.Chart
	case graph.NodeTypeTextbox:
		v = node.Text
	case graph.NodeTypeTable:
		v = node.Table
	default:
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func samePayload(a, b json.RawMessage) bool {
	if a == nil || b == nil {
		return false
	}
	return bytes.Equal(a, b)
}
