package compiler

import (
	"bytes"
	"encoding/json"

	"github.com/specialistvlad/plangen/internal/ordered"
)

// HintMap maps an operator id to the attribute names available at its input.
// Ids and names keep the order in which they were first added.
type HintMap struct {
	// RequestID identifies the compilation that produced the hints.
	RequestID string

	hints *ordered.Map[string, *ordered.Set[string]]
}

func newHintMap(requestID string) *HintMap {
	return &HintMap{RequestID: requestID, hints: ordered.NewMap[string, *ordered.Set[string]]()}
}

func (h *HintMap) add(id string, names ...string) {
	set, ok := h.hints.Get(id)
	if !ok {
		set = ordered.NewSet[string]()
		h.hints.Set(id, set)
	}
	set.AddAll(names...)
}

// Get returns the hinted attribute names for id.
func (h *HintMap) Get(id string) ([]string, bool) {
	set, ok := h.hints.Get(id)
	if !ok {
		return nil, false
	}
	return set.Items(), true
}

// IDs returns the operator ids that have hints.
func (h *HintMap) IDs() []string { return h.hints.Keys() }

// Len returns the number of operators with hints.
func (h *HintMap) Len() int { return h.hints.Len() }

// MarshalJSON writes the hints as a JSON object whose keys keep insertion
// order, e.g. {"B":["id","content"]}.
func (h *HintMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range h.hints.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		names, _ := h.Get(id)
		if names == nil {
			names = []string{}
		}
		val, err := json.Marshal(names)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
