package shape

import (
	"testing"
)

func chartRecord(id, title string) Record {
	return Record{
		ID:    id,
		Type:  TypeChart,
		Chart: &ChartProps{W: 800, H: 400, Title: title},
	}
}

func TestCreateGetAndListSorted(t *testing.T) {
	store := NewMemoryStore()
	store.CreateShapes(SourceProgrammatic, []Record{
		chartRecord("shape:b", "B"),
		chartRecord("shape:a", "A"),
	})

	rec, ok := store.GetShape("shape:a")
	if !ok || rec.Chart == nil || rec.Chart.Title != "A" {
		t.Fatalf("get failed: %#v", rec)
	}

	all := store.CurrentPageShapes()
	if len(all) != 2 || all[0].ID != "shape:a" || all[1].ID != "shape:b" {
		t.Fatalf("listing not sorted: %#v", all)
	}
}

func TestUpdateUnknownIDIsANoOp(t *testing.T) {
	store := NewMemoryStore()
	fired := 0
	store.Subscribe(func(Mutation) { fired++ })

	store.UpdateShape(SourceUser, chartRecord("shape:ghost", "G"))

	if fired != 0 {
		t.Fatalf("update of unknown id must not notify, fired %d", fired)
	}
	if _, ok := store.GetShape("shape:ghost"); ok {
		t.Fatalf("update must not create records")
	}
}

func TestUpdateReplacesPropsAndGeometry(t *testing.T) {
	store := NewMemoryStore()
	rec := chartRecord("shape:a", "A")
	rec.X, rec.Y = 50, 60
	store.CreateShapes(SourceProgrammatic, []Record{rec})

	// A drag relayed by the rendering runtime arrives as an update with the
	// new coordinates.
	upd := chartRecord("shape:a", "A2")
	upd.X, upd.Y = 700, 900
	store.UpdateShape(SourceUser, upd)

	got, _ := store.GetShape("shape:a")
	if got.Chart.Title != "A2" {
		t.Fatalf("props not replaced: %#v", got.Chart)
	}
	if got.X != 700 || got.Y != 900 {
		t.Fatalf("update must apply geometry, got %g,%g", got.X, got.Y)
	}
}

func TestReturnedRecordsAreClones(t *testing.T) {
	store := NewMemoryStore()
	store.CreateShapes(SourceProgrammatic, []Record{chartRecord("shape:a", "A")})

	rec, _ := store.GetShape("shape:a")
	rec.Chart.Title = "tampered"

	again, _ := store.GetShape("shape:a")
	if again.Chart.Title != "A" {
		t.Fatalf("store state mutated through returned record")
	}
}

func TestMutationCarriesSourceAndCancelWorks(t *testing.T) {
	store := NewMemoryStore()
	var sources []Source
	cancel := store.Subscribe(func(m Mutation) { sources = append(sources, m.Source) })

	store.CreateShapes(SourceProgrammatic, []Record{chartRecord("shape:a", "A")})
	store.UpdateShape(SourceUser, chartRecord("shape:a", "A2"))

	if len(sources) != 2 || sources[0] != SourceProgrammatic || sources[1] != SourceUser {
		t.Fatalf("unexpected sources: %v", sources)
	}

	cancel()
	store.DeleteShapes(SourceUser, []string{"shape:a"})
	if len(sources) != 2 {
		t.Fatalf("listener fired after cancel")
	}
}

func TestSelectionDropsUnknownAndDeletedIDs(t *testing.T) {
	store := NewMemoryStore()
	store.CreateShapes(SourceProgrammatic, []Record{chartRecord("shape:a", "A")})

	store.SetSelection(SourceUser, []string{"shape:a", "shape:missing"})
	if sel := store.SelectedShapes(); len(sel) != 1 || sel[0].ID != "shape:a" {
		t.Fatalf("unexpected selection: %#v", sel)
	}

	store.DeleteShapes(SourceUser, []string{"shape:a"})
	if sel := store.SelectedShapes(); len(sel) != 0 {
		t.Fatalf("deleted shape still selected: %#v", sel)
	}
}

func TestEmptyBatchesDoNotNotify(t *testing.T) {
	store := NewMemoryStore()
	fired := 0
	store.Subscribe(func(Mutation) { fired++ })

	store.CreateShapes(SourceUser, nil)
	store.DeleteShapes(SourceUser, []string{"shape:none"})
	store.SetSelection(SourceUser, nil)

	if fired != 0 {
		t.Fatalf("no-op mutators must not notify, fired %d", fired)
	}
}
