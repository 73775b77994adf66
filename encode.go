package granola

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// wirePrunable lets the package's own container types route their contents
// back through the prune pass, so elements and entries inside a Seq or
// Dict obey the same empty-field policy as native slices and maps.
type wirePrunable interface {
	pruneWire(m *Mapper) (any, bool, error)
}

// prune converts v into its wire form: a tree of maps, slices and scalars
// with every empty field removed. The codec marshals the result verbatim.
func (m *Mapper) prune(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	wire, _, err := m.pruneValue(reflect.ValueOf(v))
	return wire, err
}

// pruneValue returns the wire form of v and whether that form counts as
// empty. Emptiness only matters one level up, where object fields and map
// entries are dropped; array elements are kept regardless.
func (m *Mapper) pruneValue(v reflect.Value) (any, bool, error) {
	if !v.IsValid() {
		return nil, true, nil
	}
	t := v.Type()

	if enc, ok := m.encoders[t]; ok {
		out, err := enc(v.Interface())
		if err != nil {
			return nil, true, err
		}
		return out, out == nil, nil
	}

	if p, ok := v.Interface().(wirePrunable); ok && v.Kind() != reflect.Pointer {
		return p.pruneWire(m)
	}

	// Foreign types with their own MarshalJSON keep their wire form.
	if t.Implements(jsonMarshalerType) && v.Kind() != reflect.Pointer {
		empty := false
		if e, ok := v.Interface().(emptier); ok {
			empty = e.IsEmpty()
		}
		return v.Interface(), empty, nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, true, nil
		}
		return m.pruneValue(v.Elem())

	case reflect.String:
		s := v.String()
		return s, s == "", nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			// []byte encodes as base64 text
			return v.Interface(), v.Len() == 0, nil
		}
		return m.pruneList(v)

	case reflect.Array:
		return m.pruneList(v)

	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			w, empty, err := m.pruneValue(iter.Value())
			if err != nil {
				return nil, true, err
			}
			if empty {
				continue
			}
			out[fmt.Sprint(iter.Key().Interface())] = w
		}
		return out, len(out) == 0, nil

	case reflect.Struct:
		return m.pruneStruct(v)

	default:
		// Numbers and bools are always emitted; zero is a value, not
		// an absence.
		return v.Interface(), false, nil
	}
}

// pruneList prunes the elements of a slice or array. Elements are never
// dropped; only their contents are normalized.
func (m *Mapper) pruneList(v reflect.Value) (any, bool, error) {
	n := v.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		w, _, err := m.pruneValue(v.Index(i))
		if err != nil {
			return nil, true, err
		}
		out[i] = w
	}
	return out, n == 0, nil
}

// pruneStruct renders a struct as an object, dropping empty fields.
// Structs themselves are never empty: a struct whose fields were all
// dropped still encodes as {}.
func (m *Mapper) pruneStruct(v reflect.Value) (any, bool, error) {
	fields := wireFieldsFor(v.Type())
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fv := v.Field(f.index)
		if f.inline {
			w, _, err := m.pruneValue(fv)
			if err != nil {
				return nil, true, err
			}
			// Embedded fields merge into the parent object; the
			// parent's own fields win on collision.
			if inner, ok := w.(map[string]any); ok {
				for k, val := range inner {
					if _, exists := out[k]; !exists {
						out[k] = val
					}
				}
			}
			continue
		}
		w, empty, err := m.pruneValue(fv)
		if err != nil {
			return nil, true, err
		}
		if empty {
			continue
		}
		out[f.name] = w
	}
	return out, false, nil
}

// wireField describes one struct field's wire rendering.
type wireField struct {
	index  int
	name   string
	inline bool
}

// buildWireFields resolves json tags for a struct type. omitempty is
// redundant under this policy and ignored; json:"-" still skips.
func buildWireFields(rt reflect.Type) []wireField {
	fields := make([]wireField, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := jsonFieldName(sf)
		if skip {
			continue
		}
		if sf.Anonymous && sf.Tag.Get("json") == "" {
			k := sf.Type.Kind()
			if k == reflect.Struct || (k == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct) {
				fields = append(fields, wireField{index: i, inline: true})
				continue
			}
		}
		fields = append(fields, wireField{index: i, name: name})
	}
	return fields
}

// jsonFieldName resolves the wire name for a field from its json tag.
func jsonFieldName(sf reflect.StructField) (name string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name = sf.Name
	if tag != "" {
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			name = tag
		}
	}
	return name, false
}
