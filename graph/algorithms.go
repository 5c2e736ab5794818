package graph

import (
	"sort"

	"github.com/skridlevsky/outliner/types"
)

// OverviewStats contains global outline statistics.
type OverviewStats struct {
	TotalPages    int            `json:"totalPages"`
	TopLevelPages int            `json:"topLevelPages"`
	TotalBlocks   int            `json:"totalBlocks"`
	TotalRefs     int            `json:"totalRefs"`
	FavoritePages int            `json:"favoritePages"`
	LockedPages   int            `json:"lockedPages"`
	OrphanPages   int            `json:"orphanPages"`
	MaxDepth      int            `json:"maxDepth"`
	BlockTypes    map[string]int `json:"blockTypes"`
	MostConnected []PageStat     `json:"mostConnected"`
	MostLinkedTo  []PageStat     `json:"mostLinkedTo"`
}

// PageStat is a page with its connectivity score.
type PageStat struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	OutLinks    int    `json:"outLinks"`
	InLinks     int    `json:"inLinks"`
	TotalDegree int    `json:"totalDegree"`
	BlockCount  int    `json:"blockCount"`
	Depth       int    `json:"depth"`
}

// ConnectionResult describes how two pages are connected.
type ConnectionResult struct {
	From              string     `json:"from"`
	To                string     `json:"to"`
	DirectlyLinked    bool       `json:"directlyLinked"`
	Paths             [][]string `json:"paths"`
	SharedConnections []string   `json:"sharedConnections"`
}

// GapInfo describes sparse areas of the outline.
type GapInfo struct {
	// OrphanPages have no parent, no children and no references either way.
	OrphanPages []PageStat `json:"orphanPages"`
	// EmptyPages hold no text at all.
	EmptyPages []PageStat `json:"emptyPages"`
}

// Cluster is a group of pages connected through references or nesting.
type Cluster struct {
	ID    int      `json:"id"`
	Size  int      `json:"size"`
	Pages []string `json:"pages"`
	Hub   string   `json:"hub"`
}

func (g *Graph) stat(id string) PageStat {
	out, in := g.OutDegree(id), g.InDegree(id)
	return PageStat{
		ID:          id,
		Title:       g.Title(id),
		OutLinks:    out,
		InLinks:     in,
		TotalDegree: out + in,
		BlockCount:  g.BlockCounts[id],
		Depth:       g.Depth(id),
	}
}

// sortedIDs returns page ids ordered by title, then id.
func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.Pages))
	for id := range g.Pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := g.Title(ids[i]), g.Title(ids[j])
		if ti != tj {
			return ti < tj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Overview computes global statistics.
func (g *Graph) Overview() OverviewStats {
	stats := OverviewStats{
		TotalPages: len(g.Pages),
		TotalRefs:  g.Refs,
		BlockTypes: make(map[string]int),
	}

	var pageStats []PageStat
	for _, id := range g.sortedIDs() {
		page := g.Pages[id]
		if page.ParentID == "" {
			stats.TopLevelPages++
		}
		if page.Favorite {
			stats.FavoritePages++
		}
		if page.Locked {
			stats.LockedPages++
		}
		for i := range page.Blocks {
			stats.BlockTypes[string(page.Blocks[i].Type)]++
		}

		ps := g.stat(id)
		stats.TotalBlocks += ps.BlockCount
		if ps.TotalDegree == 0 {
			stats.OrphanPages++
		}
		if ps.Depth > stats.MaxDepth {
			stats.MaxDepth = ps.Depth
		}
		pageStats = append(pageStats, ps)
	}

	// Top 10 most connected
	sort.SliceStable(pageStats, func(i, j int) bool {
		return pageStats[i].TotalDegree > pageStats[j].TotalDegree
	})
	stats.MostConnected = append([]PageStat(nil), pageStats[:min(10, len(pageStats))]...)

	// Top 10 most linked to
	sort.SliceStable(pageStats, func(i, j int) bool {
		return pageStats[i].InLinks > pageStats[j].InLinks
	})
	stats.MostLinkedTo = pageStats[:min(10, len(pageStats))]

	return stats
}

// FindConnections finds link paths from one page to another, following
// forward links up to maxDepth hops (default 5).
func (g *Graph) FindConnections(from, to string, maxDepth int) ConnectionResult {
	if maxDepth <= 0 {
		maxDepth = 5
	}
	result := ConnectionResult{From: g.Title(from), To: g.Title(to)}
	result.DirectlyLinked = g.Forward[from][to]
	result.Paths = g.bfsPaths(from, to, maxDepth)

	fromNeighbors := g.allNeighbors(from)
	toNeighbors := g.allNeighbors(to)
	for n := range fromNeighbors {
		if toNeighbors[n] && n != from && n != to {
			result.SharedConnections = append(result.SharedConnections, g.Title(n))
		}
	}
	sort.Strings(result.SharedConnections)
	return result
}

// Gaps lists orphaned and empty pages, each sorted by title.
func (g *Graph) Gaps() GapInfo {
	var gaps GapInfo
	for _, id := range g.sortedIDs() {
		ps := g.stat(id)
		if ps.TotalDegree == 0 {
			gaps.OrphanPages = append(gaps.OrphanPages, ps)
		}
		if isEmpty(g.Pages[id]) {
			gaps.EmptyPages = append(gaps.EmptyPages, ps)
		}
	}
	return gaps
}

// isEmpty reports whether a page has no text in any block.
func isEmpty(p types.Page) bool {
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if b.Opaque() || b.Content != "" || b.PageRef() != "" || b.Type == types.TypeDivider {
			return false
		}
		if t := b.Table(); t != nil {
			for _, row := range t.Rows[min(1, len(t.Rows)):] {
				for _, cell := range row {
					if cell != "" {
						return false
					}
				}
			}
		}
		if m := b.Media(); m != nil && m.URL != "" {
			return false
		}
	}
	return true
}

// Clusters finds connected components of two or more pages in the
// undirected link graph, largest first.
func (g *Graph) Clusters() []Cluster {
	visited := make(map[string]bool)
	var clusters []Cluster

	for _, id := range g.sortedIDs() {
		if visited[id] {
			continue
		}
		component := g.bfsComponent(id, visited)
		if len(component) < 2 {
			continue
		}

		hub := component[0]
		hubDegree := g.TotalDegree(hub)
		for _, n := range component[1:] {
			if d := g.TotalDegree(n); d > hubDegree {
				hub, hubDegree = n, d
			}
		}

		titles := make([]string, len(component))
		for i, c := range component {
			titles[i] = g.Title(c)
		}
		sort.Strings(titles)
		clusters = append(clusters, Cluster{Size: len(component), Pages: titles, Hub: g.Title(hub)})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})
	for i := range clusters {
		clusters[i].ID = i
	}
	return clusters
}

// --- Internal helpers ---

func (g *Graph) bfsPaths(from, to string, maxDepth int) [][]string {
	type node struct {
		id   string
		path []string
	}

	queue := []node{{id: from, path: []string{g.Title(from)}}}
	visited := map[string]bool{from: true}
	var paths [][]string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, linked := range sortedKeys(g.Forward[current.id]) {
			if linked == to {
				path := append(append([]string(nil), current.path...), g.Title(linked))
				paths = append(paths, path)
				if len(paths) >= 10 {
					return paths
				}
				continue
			}
			if !visited[linked] && len(current.path) < maxDepth {
				visited[linked] = true
				next := append(append([]string(nil), current.path...), g.Title(linked))
				queue = append(queue, node{id: linked, path: next})
			}
		}
	}
	return paths
}

func (g *Graph) bfsComponent(start string, visited map[string]bool) []string {
	queue := []string{start}
	visited[start] = true
	var component []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		component = append(component, current)

		for n := range g.allNeighbors(current) {
			if _, exists := g.Pages[n]; exists && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return component
}

func (g *Graph) allNeighbors(id string) map[string]bool {
	neighbors := make(map[string]bool)
	for linked := range g.Forward[id] {
		neighbors[linked] = true
	}
	for linker := range g.Backward[id] {
		neighbors[linker] = true
	}
	return neighbors
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
