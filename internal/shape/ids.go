package shape

import "strings"

// IDPrefix namespaces shape-store ids away from graph node ids. The mapping
// must stay bijective: IDForNode and NodeIDFor are the only two places in the
// repo allowed to know about the prefix.
const IDPrefix = "shape:"

// IDForNode returns the shape-store id owned by a graph node.
func IDForNode(nodeID string) string {
	return IDPrefix + strings.TrimSpace(nodeID)
}

// NodeIDFor recovers the graph node id from a shape-store id. Returns false
// when the id is not in the node namespace.
func NodeIDFor(shapeID string) (string, bool) {
	if !strings.HasPrefix(shapeID, IDPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(shapeID, IDPrefix)
	if id == "" {
		return "", false
	}
	return id, true
}
