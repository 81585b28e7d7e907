package motor

import (
	"strconv"
	"sync/atomic"
)

// KeyValuePair is one editable row of a structured editor. Value is always the raw
// text the user typed; typing happens during Encode.
type KeyValuePair struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// IsPlaceholder reports whether the pair is the empty row kept in an otherwise empty list.
func (p KeyValuePair) IsPlaceholder() bool {
	return p.Key == "" && p.Value == ""
}

// PairField names the mutable parts of a pair.
type PairField int

const (
	FieldKey PairField = iota
	FieldValue
)

func (f PairField) String() string {
	switch f {
	case FieldKey:
		return "key"
	case FieldValue:
		return "value"
	default:
		return "unknown"
	}
}

// IDGenerator produces identifiers unique within one editor session.
type IDGenerator interface {
	NextID() string
}

// CounterIDs is the default IDGenerator, a monotonic counter with an optional prefix.
type CounterIDs struct {
	Prefix string
	n      atomic.Uint64
}

func (c *CounterIDs) NextID() string {
	return c.Prefix + strconv.FormatUint(c.n.Add(1), 10)
}

// clonePairs returns a copy callers may keep without aliasing store state.
func clonePairs(pairs []KeyValuePair) []KeyValuePair {
	out := make([]KeyValuePair, len(pairs))
	copy(out, pairs)
	return out
}
