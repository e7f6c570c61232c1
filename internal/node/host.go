package node

import (
	"context"
	"fmt"
	"sort"

	"github.com/loykin/xentral/internal/credentials"
	"github.com/loykin/xentral/internal/dispatch"
	"github.com/loykin/xentral/internal/value"
)

// StaticHost is an in-memory Host. Per-item parameters override run-level ones.
// With no per-item maps the host presents a single item.
type StaticHost struct {
	Creds  map[string]any
	Params map[string]value.Value
	Items  []map[string]value.Value
}

func (h *StaticHost) Credentials(_ context.Context, name string) (map[string]any, error) {
	if name != credentials.Name {
		return nil, nil
	}
	return h.Creds, nil
}

func (h *StaticHost) InputData() []Item {
	if len(h.Items) == 0 {
		return []Item{{JSON: value.Object()}}
	}
	out := make([]Item, len(h.Items))
	for i, m := range h.Items {
		out[i] = Item{JSON: objectOf(m)}
	}
	return out
}

func (h *StaticHost) NodeParameter(name string, itemIndex int) (value.Value, error) {
	n := len(h.Items)
	if n == 0 {
		n = 1
	}
	if itemIndex < 0 || itemIndex >= n {
		return value.Value{}, fmt.Errorf("item index %d out of range", itemIndex)
	}
	if itemIndex < len(h.Items) {
		if v, ok := h.Items[itemIndex][name]; ok {
			return v, nil
		}
	}
	if v, ok := h.Params[name]; ok {
		return v, nil
	}
	return value.Value{}, dispatch.ErrParamNotFound
}

func objectOf(m map[string]value.Value) value.Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]value.Pair, len(keys))
	for i, k := range keys {
		pairs[i] = value.Field(k, m[k])
	}
	return value.Object(pairs...)
}
