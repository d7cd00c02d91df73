// Package canvasdoc caches canvas documents in front of the persistent
// store, read-through on Get and write-through on Put.
package canvasdoc

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	docrepo "dfuse/internal/repository/canvasdoc"
)

type Store = docrepo.Store

type CacheConfig struct {
	DocTTL        time.Duration
	DocMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DocTTL:        2 * time.Minute,
		DocMaxEntries: 2048,
	}
}

type CachedStore struct {
	origin Store
	docs   *expirable.LRU[string, docrepo.Document]
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	if cfg.DocTTL <= 0 || cfg.DocMaxEntries <= 0 {
		def := DefaultCacheConfig()
		if cfg.DocTTL <= 0 {
			cfg.DocTTL = def.DocTTL
		}
		if cfg.DocMaxEntries <= 0 {
			cfg.DocMaxEntries = def.DocMaxEntries
		}
	}
	return &CachedStore{
		origin: origin,
		docs:   expirable.NewLRU[string, docrepo.Document](cfg.DocMaxEntries, nil, cfg.DocTTL),
	}
}

func (s *CachedStore) Get(ctx context.Context, canvasID string) (docrepo.Document, error) {
	key := strings.TrimSpace(canvasID)
	if doc, ok := s.docs.Get(key); ok {
		return doc, nil
	}
	doc, err := s.origin.Get(ctx, key)
	if err != nil {
		return docrepo.Document{}, err
	}
	s.docs.Add(key, doc)
	return doc, nil
}

func (s *CachedStore) Put(ctx context.Context, doc docrepo.Document, baseVersion int64) (docrepo.Document, bool, error) {
	stored, conflict, err := s.origin.Put(ctx, doc, baseVersion)
	if err != nil {
		return docrepo.Document{}, false, err
	}
	key := strings.TrimSpace(stored.CanvasID)
	if conflict {
		// Keep whatever the origin says is current.
		s.docs.Add(key, stored)
		return stored, true, nil
	}
	s.docs.Add(key, stored)
	return stored, false, nil
}
