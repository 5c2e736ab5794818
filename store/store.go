// Package store is the document store: the single owned aggregate of live
// pages, trash, active page and section sort modes. It loads and normalizes
// a snapshot from a backend, applies mutations through the forest and block
// engines, saves the whole snapshot after each one and notifies observers.
package store

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/skridlevsky/outliner/backend"
	"github.com/skridlevsky/outliner/blocks"
	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/types"
)

// Observer receives copies of the state after each change. Calls are made
// after the store lock is released, so an observer may call back into the store.
type Observer interface {
	PagesChanged(pages, trash []types.Page)
	ActivePageChanged(page types.Page)
	SearchResultsChanged(results []search.Result, selected int)
}

// RefusalObserver is implemented by observers that also want to hear about
// operations the store refused.
type RefusalObserver interface {
	Refused(op string, err error)
}

// Store is safe for concurrent use. Mutations are serialized.
type Store struct {
	mu          sync.Mutex
	forest      *forest.Forest
	blocks      *blocks.Engine
	text        *search.TextIndex
	backend     backend.Backend
	codec       backend.Codec
	ids         ident.Generator
	log         *zap.Logger
	activeID    string
	sectionSort types.SectionSort
	observers   []Observer
	repairs     LoadReport
}

// Option configures a Store.
type Option func(*Store)

// WithIDs sets the identifier generator for pages and blocks (default: UUIDs).
func WithIDs(g ident.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithCodec sets how documents are encoded for the backend (default: JSON).
func WithCodec(c backend.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// Subscribe registers an observer after the store is open.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Backend returns the persistence backend.
func (s *Store) Backend() backend.Backend { return s.backend }

// Codec returns the document codec.
func (s *Store) Codec() backend.Codec { return s.codec }

// LoadReport returns what Open had to fix in the stored snapshot.
func (s *Store) LoadReport() LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repairs
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// change is what a mutation produced, captured under the lock and
// delivered to observers after it is released.
type change struct {
	pages, trash  []types.Page
	active        types.Page
	activeChanged bool
}

// mutate runs fn under the lock. A refusal from fn is reported and returned
// without saving. Otherwise the active id is repaired, the snapshot is saved
// and observers are notified. A save failure is returned; the in-memory
// state keeps the change.
func (s *Store) mutate(ctx context.Context, op string, fn func() error) error {
	s.mu.Lock()
	prevActive := s.activeID
	if err := fn(); err != nil {
		observers := s.observers
		s.mu.Unlock()
		s.log.Warn("refused", zap.String("op", op), zap.Error(err))
		for _, o := range observers {
			if r, ok := o.(RefusalObserver); ok {
				r.Refused(op, err)
			}
		}
		return err
	}

	s.repairActiveLocked()
	pages, trash := s.forest.Snapshot()
	s.text.BuildFrom(pages)
	saveErr := s.saveLocked(ctx, pages, trash)

	c := change{pages: pages, trash: trash, activeChanged: s.activeID != prevActive}
	if p := s.forest.Page(s.activeID); p != nil {
		c.active = *p.Clone()
	}
	observers := s.observers
	s.mu.Unlock()

	if saveErr != nil {
		s.log.Error("save failed", zap.String("op", op), zap.Error(saveErr))
	} else {
		s.log.Debug("saved", zap.String("op", op), zap.Int("pages", len(pages)), zap.Int("trash", len(trash)))
	}
	for _, o := range observers {
		o.PagesChanged(c.pages, c.trash)
		if c.activeChanged {
			o.ActivePageChanged(c.active)
		}
	}
	if saveErr != nil {
		return fmt.Errorf("%s: %w", op, saveErr)
	}
	return nil
}

// repairActiveLocked points the active id at the first live page when it no
// longer names one.
func (s *Store) repairActiveLocked() {
	if s.forest.Page(s.activeID) != nil {
		return
	}
	s.activeID = ""
	if pages := s.forest.Pages(); len(pages) > 0 {
		s.activeID = pages[0].ID
	}
}

// page returns the live page or a wrapped forest.ErrNotFound.
func (s *Store) page(id string) (*types.Page, error) {
	p := s.forest.Page(id)
	if p == nil {
		return nil, fmt.Errorf("page %s: %w", id, forest.ErrNotFound)
	}
	return p, nil
}
