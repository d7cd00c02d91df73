package shape

import (
	"sort"
	"strings"
	"sync"
)

// MemoryStore is the in-process shape store backing one canvas. It is
// thread-safe, though the engine only ever drives it from a single event
// loop. Mutation listeners fire synchronously, after the write has committed
// and outside the store lock.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]Record
	selected map[string]struct{}

	subMu   sync.Mutex
	subs    map[int]func(Mutation)
	nextSub int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string]Record),
		selected: make(map[string]struct{}),
		subs:     make(map[int]func(Mutation)),
	}
}

func (s *MemoryStore) CreateShapes(src Source, records []Record) {
	if s == nil || len(records) == 0 {
		return
	}
	s.mu.Lock()
	created := 0
	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			continue
		}
		rec.ID = id
		s.records[id] = rec.Clone()
		created++
	}
	s.mu.Unlock()
	if created > 0 {
		s.notify(Mutation{Source: src})
	}
}

func (s *MemoryStore) UpdateShape(src Source, record Record) {
	if s == nil {
		return
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return
	}
	s.mu.Lock()
	existing, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	clone := record.Clone()
	existing.X = clone.X
	existing.Y = clone.Y
	existing.Chart = clone.Chart
	existing.Text = clone.Text
	existing.Table = clone.Table
	existing.Arrow = clone.Arrow
	s.records[id] = existing
	s.mu.Unlock()
	s.notify(Mutation{Source: src})
}

func (s *MemoryStore) DeleteShapes(src Source, ids []string) {
	if s == nil || len(ids) == 0 {
		return
	}
	s.mu.Lock()
	deleted := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := s.records[id]; !ok {
			continue
		}
		delete(s.records, id)
		delete(s.selected, id)
		deleted++
	}
	s.mu.Unlock()
	if deleted > 0 {
		s.notify(Mutation{Source: src})
	}
}

func (s *MemoryStore) GetShape(id string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[strings.TrimSpace(id)]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

func (s *MemoryStore) CurrentPageShapes() []Record {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(Record) bool { return true })
}

func (s *MemoryStore) SelectedShapes() []Record {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(rec Record) bool {
		_, ok := s.selected[rec.ID]
		return ok
	})
}

// SetSelection replaces the selection wholesale. Ids without a backing record
// are dropped.
func (s *MemoryStore) SetSelection(src Source, ids []string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := s.records[id]; ok {
			next[id] = struct{}{}
		}
	}
	changed := len(next) != len(s.selected)
	if !changed {
		for id := range next {
			if _, ok := s.selected[id]; !ok {
				changed = true
				break
			}
		}
	}
	s.selected = next
	s.mu.Unlock()
	if changed {
		s.notify(Mutation{Source: src})
	}
}

func (s *MemoryStore) Subscribe(fn func(Mutation)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *MemoryStore) listLocked(keep func(Record) bool) []Record {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec := s.records[id]; keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (s *MemoryStore) notify(m Mutation) {
	s.subMu.Lock()
	fns := make([]func(Mutation), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(m)
	}
}
