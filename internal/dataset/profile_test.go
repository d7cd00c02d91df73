package dataset

import (
	"reflect"
	"testing"
)

func TestProfileCSVSplitsDimensionsAndMeasures(t *testing.T) {
	raw := []byte("region,revenue,units\nEMEA,1200.5,3\nAPAC,900,7\n")
	p, err := ProfileCSV(raw)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if p.RowCount != 2 {
		t.Fatalf("expected 2 rows, got %d", p.RowCount)
	}
	if !reflect.DeepEqual(p.Dimensions, []string{"region"}) {
		t.Fatalf("unexpected dimensions: %v", p.Dimensions)
	}
	if !reflect.DeepEqual(p.Measures, []string{"revenue", "units"}) {
		t.Fatalf("unexpected measures: %v", p.Measures)
	}
}

func TestProfileCSVMixedColumnIsDimension(t *testing.T) {
	raw := []byte("code\n12\nAB\n")
	p, err := ProfileCSV(raw)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if len(p.Measures) != 0 || !reflect.DeepEqual(p.Dimensions, []string{"code"}) {
		t.Fatalf("mixed column must be a dimension: %#v", p)
	}
}

func TestProfileCSVEmptyInputFails(t *testing.T) {
	if _, err := ProfileCSV(nil); err == nil {
		t.Fatalf("expected error for empty csv")
	}
}
