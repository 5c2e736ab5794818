package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/skridlevsky/outliner/ident"
	"github.com/skridlevsky/outliner/types"
)

// MigrateRaw normalizes a stored block list: a JSON string becomes a text
// block holding that string and an object without a usable id gets a fresh
// one. Every other element is returned byte for byte. It reports how many
// elements changed. Running it on its own output changes nothing.
func MigrateRaw(raw []json.RawMessage, ids ident.Generator) ([]json.RawMessage, int, error) {
	out := make([]json.RawMessage, len(raw))
	changed := 0
	for i, elem := range raw {
		next, err := migrateElem(elem, ids)
		if err != nil {
			return nil, 0, fmt.Errorf("block %d: %w", i, err)
		}
		if next == nil {
			out[i] = elem
			continue
		}
		out[i] = next
		changed++
	}
	return out, changed, nil
}

// migrateElem returns the replacement for one element, or nil to keep it.
func migrateElem(elem json.RawMessage, ids ident.Generator) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, nil
		}
		b := types.NewBlock(ids.NewID(), types.TypeText)
		b.Content = s
		return json.Marshal(b)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, nil
		}
		if hasID(fields["id"]) {
			return nil, nil
		}
		id, err := json.Marshal(ids.NewID())
		if err != nil {
			return nil, err
		}
		fields["id"] = id
		return json.Marshal(fields)
	}
	return nil, nil
}

// hasID treats a missing, null or empty-string id as absent. Any other
// value, including a non-string one, is left alone.
func hasID(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && !bytes.Equal(v, []byte("null")) && !bytes.Equal(v, []byte(`""`))
}

// Migrate normalizes a stored block list with MigrateRaw and decodes it.
// Elements that do not decode into a known block are kept as opaque blocks.
func Migrate(raw []json.RawMessage, ids ident.Generator) ([]types.Block, int, error) {
	norm, changed, err := MigrateRaw(raw, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]types.Block, len(norm))
	for i, elem := range norm {
		if err := json.Unmarshal(elem, &out[i]); err != nil {
			return nil, 0, fmt.Errorf("block %d: %w", i, err)
		}
	}
	return out, changed, nil
}
