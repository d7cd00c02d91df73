package canvasdoc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps all documents in one JSON file. It is the local-dev and
// test fallback when no Postgres DSN is configured.
type FileStore struct {
	path string

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Document
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		byID: make(map[string]Document),
	}
}

func (s *FileStore) Get(_ context.Context, canvasID string) (Document, error) {
	if s == nil {
		return Document{}, fmt.Errorf("store is nil")
	}
	key := strings.TrimSpace(canvasID)
	if key == "" {
		return Document{}, fmt.Errorf("canvas_id is required")
	}
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byID[key]
	if !ok {
		return Document{CanvasID: key}, nil
	}
	return cloneDocument(doc), nil
}

func (s *FileStore) Put(_ context.Context, doc Document, baseVersion int64) (Document, bool, error) {
	if s == nil {
		return Document{}, false, fmt.Errorf("store is nil")
	}
	key := strings.TrimSpace(doc.CanvasID)
	if key == "" {
		return Document{}, false, fmt.Errorf("canvas_id is required")
	}
	s.ensureLoaded()

	s.mu.Lock()
	current, ok := s.byID[key]
	if ok && baseVersion > 0 && baseVersion != current.Version {
		out := cloneDocument(current)
		s.mu.Unlock()
		return out, true, nil
	}
	doc.CanvasID = key
	doc.Version = current.Version + 1
	s.byID[key] = cloneDocument(doc)
	out := cloneDocument(doc)
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return Document{}, false, err
	}
	return out, false, nil
}

func (s *FileStore) ensureLoaded() {
	s.loadOnce.Do(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var byID map[string]Document
		if err := json.Unmarshal(data, &byID); err != nil {
			return
		}
		s.mu.Lock()
		s.byID = byID
		s.mu.Unlock()
	})
}

func (s *FileStore) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.byID, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}

func cloneDocument(doc Document) Document {
	// Documents cross the store boundary as JSON anyway; a marshal round
	// trip is the simplest faithful deep copy.
	data, err := json.Marshal(doc)
	if err != nil {
		return doc
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return doc
	}
	return out
}
