package types

// --- Navigate tool inputs ---

type GetPageInput struct {
	ID string `json:"id,omitempty" jsonschema:"Page id. Default: the active page"`
}

type ListPagesInput struct {
	Section string `json:"section,omitempty" jsonschema:"Sidebar section: favorites or private or all. Default: all"`
}

type GetTreeInput struct {
	ExpandAll bool `json:"expandAll,omitempty" jsonschema:"Ignore sidebar collapse state and include every descendant. Default: false"`
}

// ListTrashInput has no required params.
type ListTrashInput struct{}

type BreadcrumbsInput struct {
	ID string `json:"id" jsonschema:"Page id"`
}

// --- Search tool inputs ---

type SearchPagesInput struct {
	Query string `json:"query" jsonschema:"Fuzzy title query. Empty returns every page"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results. Default: 20"`
}

type SearchBlocksInput struct {
	Query string `json:"query" jsonschema:"Query matched against block content"`
	Mode  string `json:"mode,omitempty" jsonschema:"fuzzy (characters in order) or text (every word present). Default: fuzzy"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results. Default: 20"`
}

type MoveCandidatesInput struct {
	ID    string `json:"id" jsonschema:"Page id being moved"`
	Query string `json:"query,omitempty" jsonschema:"Substring filter on candidate titles"`
}

type SlashCommandsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Filter text typed after the slash"`
}

// --- Page tool inputs ---

type CreatePageInput struct {
	ParentID string   `json:"parentId,omitempty" jsonschema:"Parent page id. Empty creates a top-level page"`
	Title    string   `json:"title,omitempty" jsonschema:"Page title"`
	Icon     string   `json:"icon,omitempty" jsonschema:"Page icon (emoji)"`
	Favorite bool     `json:"favorite,omitempty" jsonschema:"Mark the new page as favorite"`
	Blocks   []string `json:"blocks,omitempty" jsonschema:"Initial text blocks"`
}

type TrashPageInput struct {
	ID string `json:"id" jsonschema:"Page id to move to trash together with its descendants"`
}

type MovePageInput struct {
	ID       string `json:"id" jsonschema:"Page id to move"`
	ParentID string `json:"parentId,omitempty" jsonschema:"New parent id. Empty moves the page to the top level"`
}

type DuplicatePageInput struct {
	ID string `json:"id" jsonschema:"Page id to duplicate"`
}

type RenamePageInput struct {
	ID    string `json:"id" jsonschema:"Page id"`
	Title string `json:"title" jsonschema:"New title"`
	Icon  string `json:"icon,omitempty" jsonschema:"New icon. Empty keeps the current icon"`
}

type SetPageStyleInput struct {
	ID     string `json:"id" jsonschema:"Page id"`
	Toggle string `json:"toggle,omitempty" jsonschema:"Style flag to flip: fullWidth or smallText or toc"`
	Font   string `json:"font,omitempty" jsonschema:"Font: default or serif or mono"`
}

type PageIDInput struct {
	ID string `json:"id" jsonschema:"Page id"`
}

type ToggleSectionSortInput struct {
	Section string `json:"section" jsonschema:"Sidebar section: favorites or private"`
}

// --- Block tool inputs ---

type InsertBlockInput struct {
	PageID  string `json:"pageId" jsonschema:"Page id"`
	AfterID string `json:"afterId,omitempty" jsonschema:"Insert after this block. Empty inserts at the start"`
	Type    string `json:"type,omitempty" jsonschema:"Block type. Default: text"`
	Content string `json:"content,omitempty" jsonschema:"Initial content"`
}

type UpdateBlockInput struct {
	PageID  string `json:"pageId" jsonschema:"Page id"`
	BlockID string `json:"blockId" jsonschema:"Block id"`
	Content string `json:"content" jsonschema:"New content (replaces existing content entirely)"`
}

type BlockRefInput struct {
	PageID  string `json:"pageId" jsonschema:"Page id"`
	BlockID string `json:"blockId" jsonschema:"Block id"`
}

type ReorderBlockInput struct {
	PageID   string `json:"pageId" jsonschema:"Page id"`
	BlockID  string `json:"blockId" jsonschema:"Block to move"`
	TargetID string `json:"targetId" jsonschema:"Block to place it next to"`
	Position string `json:"position,omitempty" jsonschema:"Placement: before or after. Default: after"`
}

type ConvertBlockInput struct {
	PageID  string `json:"pageId" jsonschema:"Page id"`
	BlockID string `json:"blockId" jsonschema:"Block id"`
	Type    string `json:"type" jsonschema:"Target block type. Converting to page creates a sub-page"`
}

type MoveBlockToPageInput struct {
	PageID   string `json:"pageId" jsonschema:"Source page id"`
	BlockID  string `json:"blockId" jsonschema:"Block id"`
	TargetID string `json:"targetPageId" jsonschema:"Destination page id"`
}

type EditBlockInput struct {
	PageID    string  `json:"pageId" jsonschema:"Page id"`
	BlockID   string  `json:"blockId" jsonschema:"Block id"`
	Checked   *bool   `json:"checked,omitempty" jsonschema:"Todo: set checked state"`
	Collapse  bool    `json:"toggleCollapsed,omitempty" jsonschema:"Toggle: flip collapsed state"`
	Details   *string `json:"details,omitempty" jsonschema:"Toggle: set hidden details"`
	Language  *string `json:"language,omitempty" jsonschema:"Code: set language"`
	URL       *string `json:"url,omitempty" jsonschema:"Image or bookmark: set url"`
	Caption   *string `json:"caption,omitempty" jsonschema:"Image or bookmark: set caption"`
	AddRow    bool    `json:"addRow,omitempty" jsonschema:"Table: append an empty row"`
	AddColumn bool    `json:"addColumn,omitempty" jsonschema:"Table: append an empty column"`
	Row       *int    `json:"row,omitempty" jsonschema:"Table: cell row index (0 is the header)"`
	Col       *int    `json:"col,omitempty" jsonschema:"Table: cell column index"`
	Cell      string  `json:"cell,omitempty" jsonschema:"Table: cell value, used with row and col"`
}

// --- Analyze tool inputs ---

// OutlineOverviewInput has no required params.
type OutlineOverviewInput struct{}

// ListOrphansInput has no required params.
type ListOrphansInput struct{}

type FindConnectionsInput struct {
	From     string `json:"from" jsonschema:"Starting page id"`
	To       string `json:"to" jsonschema:"Target page id"`
	MaxDepth int    `json:"maxDepth,omitempty" jsonschema:"Maximum path length. Default: 5"`
}

// PageClustersInput has no required params.
type PageClustersInput struct{}

// --- Export tool inputs ---

type ExportPageInput struct {
	ID     string `json:"id" jsonschema:"Page id"`
	Format string `json:"format,omitempty" jsonschema:"Format: json or markdown or html. Default: json"`
}
