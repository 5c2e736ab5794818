package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skridlevsky/outliner/graph"
	"github.com/skridlevsky/outliner/store"
	"github.com/skridlevsky/outliner/types"
)

// Analyze implements outline analysis MCP tools.
type Analyze struct {
	store *store.Store
}

// NewAnalyze creates a new Analyze tool handler.
func NewAnalyze(s *store.Store) *Analyze {
	return &Analyze{store: s}
}

func (a *Analyze) graph() *graph.Graph {
	return graph.Build(a.store.Pages())
}

// OutlineOverview returns global outline statistics.
func (a *Analyze) OutlineOverview(ctx context.Context, req *mcp.CallToolRequest, input types.OutlineOverviewInput) (*mcp.CallToolResult, any, error) {
	res, err := jsonTextResult(a.graph().Overview())
	return res, nil, err
}

// ListOrphans lists disconnected and empty pages.
func (a *Analyze) ListOrphans(ctx context.Context, req *mcp.CallToolRequest, input types.ListOrphansInput) (*mcp.CallToolResult, any, error) {
	gaps := a.graph().Gaps()
	if len(gaps.OrphanPages) == 0 && len(gaps.EmptyPages) == 0 {
		return textResult("No orphan or empty pages."), nil, nil
	}
	res, err := jsonTextResult(gaps)
	return res, nil, err
}

// FindConnections finds how two pages are connected through nesting and page blocks.
func (a *Analyze) FindConnections(ctx context.Context, req *mcp.CallToolRequest, input types.FindConnectionsInput) (*mcp.CallToolResult, any, error) {
	g := a.graph()
	for _, id := range []string{input.From, input.To} {
		if _, ok := g.Pages[id]; !ok {
			return errorResult(fmt.Sprintf("page not found: %s", id)), nil, nil
		}
	}

	result := g.FindConnections(input.From, input.To, input.MaxDepth)
	if !result.DirectlyLinked && len(result.Paths) == 0 && len(result.SharedConnections) == 0 {
		return textResult(fmt.Sprintf("No connections found between '%s' and '%s'.", result.From, result.To)), nil, nil
	}
	res, err := jsonTextResult(result)
	return res, nil, err
}

// PageClusters groups pages into connected components.
func (a *Analyze) PageClusters(ctx context.Context, req *mcp.CallToolRequest, input types.PageClustersInput) (*mcp.CallToolResult, any, error) {
	clusters := a.graph().Clusters()
	if len(clusters) == 0 {
		return textResult("No clusters: no page is connected to another."), nil, nil
	}
	res, err := jsonTextResult(clusters)
	return res, nil, err
}
