package shape

// Source records where a store mutation originated. Programmatic writes come
// from the sync engine itself; user writes come from the rendering runtime
// relaying an interactive edit. The distinction is what keeps the write path
// from re-triggering itself.
type Source string

const (
	SourceUser         Source = "user"
	SourceProgrammatic Source = "programmatic"
)

// Mutation is delivered to subscribers after every committed store change.
type Mutation struct {
	Source Source
}

// Store is the rendering runtime's record of drawable objects. All mutators
// carry their provenance; UpdateShape and DeleteShapes no-op on unknown ids.
type Store interface {
	CreateShapes(src Source, records []Record)
	// UpdateShape replaces the props and geometry of an existing record.
	// Unknown ids are ignored, so callers that need to distinguish must
	// check GetShape first.
	UpdateShape(src Source, record Record)
	DeleteShapes(src Source, ids []string)
	GetShape(id string) (Record, bool)
	CurrentPageShapes() []Record
	SelectedShapes() []Record
	SetSelection(src Source, ids []string)
	// Subscribe registers a mutation listener and returns its cancel func.
	// Listeners fire synchronously on the mutating call.
	Subscribe(fn func(Mutation)) func()
}
