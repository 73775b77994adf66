package granola

import (
	"encoding/json"
	"reflect"
	"sort"
)

// emptier reports container emptiness to the encoder's pruning pass without
// the encoder knowing the concrete generic instantiation.
type emptier interface {
	IsEmpty() bool
}

// Seq is a read-only ordered sequence. The zero value is an empty sequence.
//
// Seq exists so decoded collections cannot be mutated after construction:
// the backing slice is unexported and every accessor copies. Decoding null
// or absent input yields an empty Seq, never a nil one.
type Seq[T any] struct {
	items []T
}

// NewSeq builds a Seq holding a copy of items.
func NewSeq[T any](items ...T) Seq[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return Seq[T]{items: cp}
}

// Len returns the number of elements.
func (s Seq[T]) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the sequence has no elements.
func (s Seq[T]) IsEmpty() bool {
	return len(s.items) == 0
}

// At returns the element at index i. It panics if i is out of range,
// matching slice indexing semantics.
func (s Seq[T]) At(i int) T {
	return s.items[i]
}

// Items returns a copy of the elements. The returned slice is never nil.
func (s Seq[T]) Items() []T {
	cp := make([]T, len(s.items))
	copy(cp, s.items)
	return cp
}

// Range calls fn for each element in order until fn returns false.
func (s Seq[T]) Range(fn func(i int, v T) bool) {
	for i, v := range s.items {
		if !fn(i, v) {
			return
		}
	}
}

// MarshalJSON encodes the sequence as a JSON array. An empty sequence
// encodes as [], though the Mapper prunes empty sequences at field level.
func (s Seq[T]) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes a JSON array, treating null as empty. When T is
// any, nested objects and arrays are frozen into Dict and Seq values.
func (s *Seq[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.items = []T{}
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if isAnyElem[T]() {
		for i := range items {
			items[i] = freezeAny(any(items[i])).(T)
		}
	}
	if items == nil {
		items = []T{}
	}
	s.items = items
	return nil
}

// pruneWire encodes the sequence through the Mapper's prune pass instead
// of MarshalJSON, so struct elements lose their empty fields exactly as
// they would inside a native slice.
func (s Seq[T]) pruneWire(m *Mapper) (any, bool, error) {
	return m.pruneList(reflect.ValueOf(s.items))
}

// Dict is a read-only string-keyed mapping. The zero value is an empty
// mapping.
//
// Like Seq, the backing map is unexported and every accessor copies, so a
// decoded Dict cannot be mutated after construction.
type Dict[V any] struct {
	entries map[string]V
}

// NewDict builds a Dict holding a copy of src.
func NewDict[V any](src map[string]V) Dict[V] {
	cp := make(map[string]V, len(src))
	for k, v := range src {
		cp[k] = v
	}
	return Dict[V]{entries: cp}
}

// Len returns the number of entries.
func (d Dict[V]) Len() int {
	return len(d.entries)
}

// IsEmpty reports whether the mapping has no entries.
func (d Dict[V]) IsEmpty() bool {
	return len(d.entries) == 0
}

// Get returns the value for key and whether it was present.
func (d Dict[V]) Get(key string) (V, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Keys returns the keys in sorted order. The returned slice is never nil.
func (d Dict[V]) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the entries. The returned map is never nil.
func (d Dict[V]) Snapshot() map[string]V {
	cp := make(map[string]V, len(d.entries))
	for k, v := range d.entries {
		cp[k] = v
	}
	return cp
}

// Range calls fn for each entry until fn returns false. Iteration order is
// unspecified, matching map semantics.
func (d Dict[V]) Range(fn func(key string, v V) bool) {
	for k, v := range d.entries {
		if !fn(k, v) {
			return
		}
	}
}

// MarshalJSON encodes the mapping as a JSON object. An empty mapping
// encodes as {}, though the Mapper prunes empty mappings at field level.
func (d Dict[V]) MarshalJSON() ([]byte, error) {
	if d.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.entries)
}

// UnmarshalJSON decodes a JSON object, treating null as empty. When V is
// any, nested objects and arrays are frozen into Dict and Seq values.
func (d *Dict[V]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.entries = map[string]V{}
		return nil
	}
	var entries map[string]V
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if isAnyElem[V]() {
		for k := range entries {
			entries[k] = freezeAny(any(entries[k])).(V)
		}
	}
	if entries == nil {
		entries = map[string]V{}
	}
	d.entries = entries
	return nil
}

// pruneWire encodes the mapping through the Mapper's prune pass instead
// of MarshalJSON, so entries with empty values are dropped exactly as
// they would be from a native map.
func (d Dict[V]) pruneWire(m *Mapper) (any, bool, error) {
	return m.pruneValue(reflect.ValueOf(d.entries))
}

// isAnyElem reports whether the type parameter is exactly the empty
// interface, which is the only case where freezing applies.
func isAnyElem[T any]() bool {
	var zero T
	_, ok := any(&zero).(*any)
	return ok
}

// freezeAny recursively converts decoded dynamic values into read-only
// containers: map[string]any becomes Dict[any] and []any becomes Seq[any].
// Scalars pass through unchanged. This is the shape transformation applied
// after base decoding, composing for nested shapes by plain recursion.
func freezeAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		entries := make(map[string]any, len(x))
		for k, e := range x {
			entries[k] = freezeAny(e)
		}
		return Dict[any]{entries: entries}
	case []any:
		items := make([]any, len(x))
		for i, e := range x {
			items[i] = freezeAny(e)
		}
		return Seq[any]{items: items}
	default:
		return v
	}
}
