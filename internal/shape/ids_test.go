package shape

import "testing"

func TestIDMappingIsBijective(t *testing.T) {
	for _, nodeID := range []string{"chart1", "a-b-c", "e1"} {
		shapeID := IDForNode(nodeID)
		back, ok := NodeIDFor(shapeID)
		if !ok || back != nodeID {
			t.Fatalf("round trip failed for %q: got %q ok=%v", nodeID, back, ok)
		}
	}
}

func TestForeignIDsAreRejected(t *testing.T) {
	if _, ok := NodeIDFor("freehand:1"); ok {
		t.Fatalf("foreign namespace must not resolve")
	}
	if _, ok := NodeIDFor(IDPrefix); ok {
		t.Fatalf("bare prefix must not resolve")
	}
}
