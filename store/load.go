package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/skridlevsky/outliner/backend"
	"github.com/skridlevsky/outliner/blocks"
	"github.com/skridlevsky/outliner/forest"
	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/search"
	"github.com/skridlevsky/outliner/types"
)

// Default page seeded into an empty store.
const (
	DefaultTitle   = "Getting Started"
	DefaultIcon    = "👋"
	DefaultHeading = "Welcome"
)

// LoadReport describes the normalization Open applied to stored data.
type LoadReport struct {
	forest.Repairs
	MigratedBlocks int  `json:"migratedBlocks"`
	SeededDefault  bool `json:"seededDefault"`
	ActiveRepaired bool `json:"activeRepaired"`
}

// Changed reports whether the loaded state differs from what was stored.
func (r LoadReport) Changed() bool {
	return r.Repairs.Any() || r.MigratedBlocks > 0 || r.SeededDefault || r.ActiveRepaired
}

// storedPage decodes a page while keeping its blocks raw for migration.
type storedPage struct {
	types.Page
	Blocks []json.RawMessage `json:"blocks"`
}

// Open loads the snapshot from b, normalizes it and returns the store.
// Missing keys are treated as empty; an empty forest is seeded with a
// default page. When normalization changed anything the result is saved.
func Open(ctx context.Context, b backend.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:     b,
		codec:       backend.JSON,
		ids:         ident.UUID(),
		log:         zap.NewNop(),
		text:        search.NewTextIndex(),
		sectionSort: types.DefaultSectionSort(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var report LoadReport
	pages, migrated, err := s.loadPages(ctx, backend.KeyPages)
	if err != nil {
		return nil, err
	}
	report.MigratedBlocks += migrated
	trash, migrated, err := s.loadPages(ctx, backend.KeyTrash)
	if err != nil {
		return nil, err
	}
	report.MigratedBlocks += migrated
	active, err := s.loadActive(ctx)
	if err != nil {
		return nil, err
	}

	s.forest, report.Repairs = forest.Load(pages, trash, forest.WithIDs(s.ids))
	s.blocks = blocks.New(s.forest, s.ids)

	if s.forest.Len() == 0 {
		s.seedDefault()
		report.SeededDefault = true
	}
	s.activeID = active
	s.repairActiveLocked()
	report.ActiveRepaired = s.activeID != active
	s.repairs = report

	live, dead := s.forest.Snapshot()
	s.text.BuildFrom(live)

	s.log.Info("loaded",
		zap.String("backend", backend.Name(b)),
		zap.String("codec", s.codec.Name()),
		zap.Int("pages", len(live)),
		zap.Int("trash", len(dead)),
		zap.String("active", s.activeID),
	)
	if report.Changed() {
		s.log.Info("normalized stored data",
			zap.Int("migratedBlocks", report.MigratedBlocks),
			zap.Int("duplicateIds", report.DuplicateIDs),
			zap.Int("danglingParents", report.DanglingParents),
			zap.Int("cycles", report.Cycles),
			zap.Int("danglingRefs", report.DanglingRefs),
			zap.Bool("seededDefault", report.SeededDefault),
		)
		if err := s.saveLocked(ctx, live, dead); err != nil {
			return nil, fmt.Errorf("save normalized data: %w", err)
		}
	}
	return s, nil
}

// seedDefault adds the welcome page to an empty forest.
func (s *Store) seedDefault() {
	p, _ := s.forest.CreatePage("")
	p.Title = DefaultTitle
	p.Icon = DefaultIcon
	p.Blocks[0].Type = types.TypeH1
	p.Blocks[0].Content = DefaultHeading
}

func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.backend.Load(ctx, key)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	doc, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

// loadPages decodes a page list and migrates each page's blocks.
func (s *Store) loadPages(ctx context.Context, key string) ([]types.Page, int, error) {
	doc, err := s.read(ctx, key)
	if doc == nil || err != nil {
		return nil, 0, err
	}
	var stored []storedPage
	if err := json.Unmarshal(doc, &stored); err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", key, err)
	}

	out := make([]types.Page, len(stored))
	total := 0
	for i, sp := range stored {
		migrated, n, err := blocks.Migrate(sp.Blocks, s.ids)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: page %s: %w", key, sp.ID, err)
		}
		total += n
		out[i] = sp.Page
		out[i].Blocks = migrated
	}
	return out, total, nil
}

// loadActive reads the active page id. A JSON string is unquoted; any
// other content is taken as the id itself.
func (s *Store) loadActive(ctx context.Context) (string, error) {
	doc, err := s.read(ctx, backend.KeyActivePage)
	if doc == nil || err != nil {
		return "", err
	}
	var id string
	if err := json.Unmarshal(doc, &id); err == nil {
		return id, nil
	}
	if bytes.Equal(bytes.TrimSpace(doc), []byte("null")) {
		return "", nil
	}
	return string(bytes.TrimSpace(doc)), nil
}

// saveLocked overwrites all three keys with the given snapshot.
func (s *Store) saveLocked(ctx context.Context, pages, trash []types.Page) error {
	values := make(map[string][]byte, len(backend.Keys))
	docs := map[string]any{
		backend.KeyPages:      pages,
		backend.KeyTrash:      trash,
		backend.KeyActivePage: s.activeID,
	}
	for key, v := range docs {
		doc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		enc, err := s.codec.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = enc
	}
	return s.backend.Save(ctx, values)
}
