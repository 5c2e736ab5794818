// Package graph analyzes the link structure of the live pages. A page links
// to another through a page block referencing it and through the parent
// relation (parent to child).
package graph

import (
	"github.com/skridlevsky/outliner/types"
)

// Graph is an in-memory adjacency view over page ids.
type Graph struct {
	// Forward links: page id → ids it links to
	Forward map[string]map[string]bool
	// Backward links: page id → ids that link to it
	Backward map[string]map[string]bool
	// Pages: id → page
	Pages map[string]types.Page
	// BlockCounts: id → number of blocks
	BlockCounts map[string]int
	// Refs counts page-block references only, without parent edges.
	Refs int
}

// Build constructs the graph from a snapshot of live pages. References to
// pages outside the snapshot are ignored.
func Build(pages []types.Page) *Graph {
	g := &Graph{
		Forward:     make(map[string]map[string]bool),
		Backward:    make(map[string]map[string]bool),
		Pages:       make(map[string]types.Page, len(pages)),
		BlockCounts: make(map[string]int, len(pages)),
	}
	for _, p := range pages {
		if p.ID == "" {
			continue
		}
		g.Pages[p.ID] = p
		g.Forward[p.ID] = make(map[string]bool)
		g.BlockCounts[p.ID] = len(p.Blocks)
	}

	for id, p := range g.Pages {
		if _, ok := g.Pages[p.ParentID]; ok {
			g.link(p.ParentID, id)
		}
		for i := range p.Blocks {
			ref := p.Blocks[i].PageRef()
			if _, ok := g.Pages[ref]; !ok {
				continue
			}
			g.Refs++
			g.link(id, ref)
		}
	}
	return g
}

func (g *Graph) link(from, to string) {
	g.Forward[from][to] = true
	if g.Backward[to] == nil {
		g.Backward[to] = make(map[string]bool)
	}
	g.Backward[to][from] = true
}

// OutDegree returns the number of pages a page links to.
func (g *Graph) OutDegree(id string) int {
	return len(g.Forward[id])
}

// InDegree returns the number of pages linking to a page.
func (g *Graph) InDegree(id string) int {
	return len(g.Backward[id])
}

// TotalDegree returns outgoing + incoming link count for a page.
func (g *Graph) TotalDegree(id string) int {
	return g.OutDegree(id) + g.InDegree(id)
}

// Title returns the display title for a page id, or the id itself.
func (g *Graph) Title(id string) string {
	if p, ok := g.Pages[id]; ok {
		return p.DisplayTitle()
	}
	return id
}

// Depth returns the number of ancestors of a page within the graph.
func (g *Graph) Depth(id string) int {
	depth := 0
	seen := map[string]bool{id: true}
	for {
		parent := g.Pages[id].ParentID
		if _, ok := g.Pages[parent]; !ok || seen[parent] {
			return depth
		}
		seen[parent] = true
		depth++
		id = parent
	}
}
