package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// BlockType tags a block with one variant of the closed block set.
type BlockType string

const (
	TypeText     BlockType = "text"
	TypeH1       BlockType = "h1"
	TypeH2       BlockType = "h2"
	TypeH3       BlockType = "h3"
	TypeTodo     BlockType = "todo"
	TypeBullet   BlockType = "bullet"
	TypeQuote    BlockType = "quote"
	TypeCallout  BlockType = "callout"
	TypeCode     BlockType = "code"
	TypeDivider  BlockType = "divider"
	TypePage     BlockType = "page"
	TypeTable    BlockType = "table"
	TypeImage    BlockType = "image"
	TypeBookmark BlockType = "bookmark"
	TypeToggle   BlockType = "toggle"
)

// BlockTypes lists every block type in menu order.
var BlockTypes = []BlockType{
	TypeText, TypeH1, TypeH2, TypeH3, TypeTodo, TypeBullet, TypeQuote, TypeCallout,
	TypeCode, TypeDivider, TypePage, TypeTable, TypeImage, TypeBookmark, TypeToggle,
}

// Valid reports whether t is a member of the block type set.
func (t BlockType) Valid() bool {
	for _, bt := range BlockTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// Body is the type-specific payload of a block. Plain text variants
// (text, headings, bullet, quote, callout, divider) carry no body.
type Body interface {
	isBody()
	clone() Body
}

// TodoBody is the payload of a todo block.
type TodoBody struct {
	Checked bool
}

// TableBody is the payload of a table block. Row 0 is the header.
type TableBody struct {
	Rows [][]string
}

// MediaBody is the payload shared by image and bookmark blocks.
type MediaBody struct {
	URL     string
	Caption string
}

// CodeBody is the payload of a code block.
type CodeBody struct {
	Language string
}

// ToggleBody is the payload of a toggle block.
type ToggleBody struct {
	Collapsed bool
	Details   string
}

// PageRefBody is the payload of a page block: a non-owning reference to another page.
type PageRefBody struct {
	PageID string
}

func (*TodoBody) isBody()    {}
func (*TableBody) isBody()   {}
func (*MediaBody) isBody()   {}
func (*CodeBody) isBody()    {}
func (*ToggleBody) isBody()  {}
func (*PageRefBody) isBody() {}

func (b *TodoBody) clone() Body    { cp := *b; return &cp }
func (b *MediaBody) clone() Body   { cp := *b; return &cp }
func (b *CodeBody) clone() Body    { cp := *b; return &cp }
func (b *ToggleBody) clone() Body  { cp := *b; return &cp }
func (b *PageRefBody) clone() Body { cp := *b; return &cp }

func (b *TableBody) clone() Body {
	rows := make([][]string, len(b.Rows))
	for i, row := range b.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return &TableBody{Rows: rows}
}

// DefaultTableRows seeds a new table: a two-column header and two empty rows.
func DefaultTableRows() [][]string {
	return [][]string{{"Name", "Tags"}, {"", ""}, {"", ""}}
}

// NewBody returns the empty payload for a block type.
func NewBody(t BlockType) Body {
	switch t {
	case TypeTodo:
		return &TodoBody{}
	case TypeTable:
		return &TableBody{Rows: DefaultTableRows()}
	case TypeImage, TypeBookmark:
		return &MediaBody{}
	case TypeCode:
		return &CodeBody{}
	case TypeToggle:
		return &ToggleBody{}
	case TypePage:
		return &PageRefBody{}
	case TypeText, TypeH1, TypeH2, TypeH3, TypeBullet, TypeQuote, TypeCallout, TypeDivider:
		return nil
	}
	return nil
}

// Block is one typed content unit in a page's ordered block list.
type Block struct {
	ID      string
	Type    BlockType
	Content string
	Body    Body

	// raw holds a stored element that did not decode into a known variant.
	// It is written back verbatim.
	raw json.RawMessage
	// extra holds stored keys the block's variant does not own, such as
	// "checked" left behind when a todo became text.
	extra map[string]json.RawMessage
}

// NewBlock returns an empty block of type t with its default payload.
func NewBlock(id string, t BlockType) Block {
	return Block{ID: id, Type: t, Body: NewBody(t)}
}

// NewPageRef returns a page block bound to pageID.
func NewPageRef(id, pageID string) Block {
	return Block{ID: id, Type: TypePage, Body: &PageRefBody{PageID: pageID}}
}

// Opaque reports whether the block is an unrecognized stored shape kept for round-tripping.
func (b *Block) Opaque() bool {
	return b.raw != nil
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	cp := b
	if b.Body != nil {
		cp.Body = b.Body.clone()
	}
	if b.raw != nil {
		cp.raw = append(json.RawMessage(nil), b.raw...)
	}
	if b.extra != nil {
		cp.extra = make(map[string]json.RawMessage, len(b.extra))
		for k, v := range b.extra {
			cp.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return cp
}

// PageRef returns the referenced page id of a bound page block, or "".
func (b *Block) PageRef() string {
	if b.Type != TypePage {
		return ""
	}
	if ref, ok := b.Body.(*PageRefBody); ok {
		return ref.PageID
	}
	return ""
}

// Todo returns the todo payload, or nil for other types.
func (b *Block) Todo() *TodoBody {
	body, _ := b.Body.(*TodoBody)
	return body
}

// Table returns the table payload, or nil for other types.
func (b *Block) Table() *TableBody {
	body, _ := b.Body.(*TableBody)
	return body
}

// Media returns the image/bookmark payload, or nil for other types.
func (b *Block) Media() *MediaBody {
	body, _ := b.Body.(*MediaBody)
	return body
}

// Code returns the code payload, or nil for other types.
func (b *Block) Code() *CodeBody {
	body, _ := b.Body.(*CodeBody)
	return body
}

// Toggle returns the toggle payload, or nil for other types.
func (b *Block) Toggle() *ToggleBody {
	body, _ := b.Body.(*ToggleBody)
	return body
}

// blockWire is the flat stored form of a block.
type blockWire struct {
	ID        string     `json:"id"`
	Type      BlockType  `json:"type"`
	Content   string     `json:"content"`
	Checked   bool       `json:"checked,omitempty"`
	Data      [][]string `json:"data,omitempty"`
	URL       string     `json:"url,omitempty"`
	Caption   string     `json:"caption,omitempty"`
	Language  string     `json:"language,omitempty"`
	Collapsed bool       `json:"collapsed,omitempty"`
	Details   string     `json:"details,omitempty"`
	PageID    string     `json:"pageId,omitempty"`
}

// ownedKeys lists the stored keys a variant writes from its typed fields.
func ownedKeys(t BlockType) []string {
	keys := []string{"id", "type", "content"}
	switch t {
	case TypeTodo:
		keys = append(keys, "checked")
	case TypeTable:
		keys = append(keys, "data")
	case TypeImage, TypeBookmark:
		keys = append(keys, "url", "caption")
	case TypeCode:
		keys = append(keys, "language")
	case TypeToggle:
		keys = append(keys, "collapsed", "details")
	case TypePage:
		keys = append(keys, "pageId")
	}
	return keys
}

func owns(t BlockType, key string) bool {
	for _, k := range ownedKeys(t) {
		if k == key {
			return true
		}
	}
	return false
}

// MarshalJSON writes the flat stored form, or the original bytes of an opaque block.
func (b Block) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	w := blockWire{ID: b.ID, Type: b.Type, Content: b.Content}
	switch body := b.Body.(type) {
	case *TodoBody:
		w.Checked = body.Checked
	case *TableBody:
		w.Data = body.Rows
	case *MediaBody:
		w.URL = body.URL
		w.Caption = body.Caption
	case *CodeBody:
		w.Language = body.Language
	case *ToggleBody:
		w.Collapsed = body.Collapsed
		w.Details = body.Details
	case *PageRefBody:
		w.PageID = body.PageID
	case nil:
	default:
		return nil, fmt.Errorf("block %s: unknown body %T", b.ID, body)
	}
	out, err := json.Marshal(w)
	if err != nil || len(b.extra) == 0 {
		return out, err
	}
	return b.appendExtra(out)
}

// appendExtra adds the kept keys to the encoded object obj, in key order.
func (b Block) appendExtra(obj []byte) ([]byte, error) {
	keys := make([]string, 0, len(b.extra))
	for k := range b.extra {
		if !owns(b.Type, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := obj[:len(obj)-1]
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, name...)
		out = append(out, ':')
		out = append(out, b.extra[k]...)
	}
	return append(out, '}'), nil
}

// UnmarshalJSON decodes the flat stored form. Elements that are not objects,
// or objects whose type is outside the block set, are kept verbatim.
func (b *Block) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*b = Block{raw: append(json.RawMessage(nil), trimmed...)}
		return nil
	}

	var w blockWire
	if err := json.Unmarshal(trimmed, &w); err != nil {
		*b = Block{raw: append(json.RawMessage(nil), trimmed...)}
		return nil
	}
	if !w.Type.Valid() {
		*b = Block{ID: w.ID, Type: w.Type, Content: w.Content, raw: append(json.RawMessage(nil), trimmed...)}
		return nil
	}

	*b = Block{ID: w.ID, Type: w.Type, Content: w.Content}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		for k, v := range fields {
			if owns(w.Type, k) {
				continue
			}
			if b.extra == nil {
				b.extra = make(map[string]json.RawMessage)
			}
			b.extra[k] = v
		}
	}
	switch w.Type {
	case TypeTodo:
		b.Body = &TodoBody{Checked: w.Checked}
	case TypeTable:
		rows := w.Data
		if rows == nil {
			rows = DefaultTableRows()
		}
		b.Body = &TableBody{Rows: rows}
	case TypeImage, TypeBookmark:
		b.Body = &MediaBody{URL: w.URL, Caption: w.Caption}
	case TypeCode:
		b.Body = &CodeBody{Language: w.Language}
	case TypeToggle:
		b.Body = &ToggleBody{Collapsed: w.Collapsed, Details: w.Details}
	case TypePage:
		b.Body = &PageRefBody{PageID: w.PageID}
	}
	return nil
}
