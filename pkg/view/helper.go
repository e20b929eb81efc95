package view

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// TranslateFunc translates a key with optional arguments (see SplitArgs).
type TranslateFunc func(args ...any) string

// Helper is the render-scoped translator. Identical argument tuples are
// translated once; the results are kept in the State defaults so the client
// can reuse them.
type Helper struct {
	state *State
	fn    TranslateFunc
	calls atomic.Int64
}

// NewHelper returns a helper memoising fn into state.
func NewHelper(state *State, fn TranslateFunc) *Helper {
	return &Helper{state: state, fn: fn}
}

// T translates args, consulting the memo first.
func (h *Helper) T(args ...any) string {
	key := MemoKey(args...)
	if v, ok := h.state.Default(key); ok {
		return v
	}
	h.calls.Add(1)
	v := h.fn(args...)
	h.state.setDefault(key, v)
	return v
}

// Calls reports how many lookups reached the translate function.
func (h *Helper) Calls() int64 { return h.calls.Load() }

// State returns the state the helper writes to.
func (h *Helper) State() *State { return h.state }

// MemoKey is the JSON encoding of the argument tuple.
func MemoKey(args ...any) string {
	if args == nil {
		args = []any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprint(args...)
	}
	return string(data)
}

// SplitArgs interprets translate arguments: the first string is the key,
// a map supplies placeholder values, an int selects the plural form.
func SplitArgs(args []any) (key string, values map[string]any, count *int) {
	for _, a := range args {
		switch v := a.(type) {
		case string:
			if key == "" {
				key = v
			}
		case map[string]any:
			values = v
		case map[string]string:
			values = make(map[string]any, len(v))
			for k, s := range v {
				values[k] = s
			}
		case int:
			n := v
			count = &n
		}
	}
	return key, values, count
}
