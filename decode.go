package granola

import (
	"reflect"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Surface json tags through sentinel metadata for types scanned
	// elsewhere in the process.
	sentinel.Tag("json")
}

var timeType = reflect.TypeOf(time.Time{})

// structPlan lists the fields of a struct type that the post-decode
// normalization pass must visit. Scalar-only structs get an empty plan and
// cost nothing per decode.
type structPlan struct {
	typeName string
	fields   [][]int // reflect.Value.FieldByIndex access paths
}

// normalizeSlot applies the decode-side policy to one settable location:
// *string pointing at "" becomes nil, nil slices and maps become empty
// containers, and composite values are walked recursively. It never fails;
// malformed input has already been rejected by the codec.
func normalizeSlot(slot reflect.Value) {
	switch slot.Kind() {
	case reflect.Pointer:
		if slot.IsNil() {
			return
		}
		if slot.Type().Elem().Kind() == reflect.String {
			if slot.Elem().String() == "" && slot.CanSet() {
				slot.Set(reflect.Zero(slot.Type()))
			}
			return
		}
		normalizeSlot(slot.Elem())

	case reflect.Slice:
		if slot.Type().Elem().Kind() == reflect.Uint8 {
			// []byte is scalar on the wire
			return
		}
		if slot.IsNil() {
			if slot.CanSet() {
				slot.Set(reflect.MakeSlice(slot.Type(), 0, 0))
			}
			return
		}
		if !needsNormalize(slot.Type().Elem()) {
			return
		}
		for i := 0; i < slot.Len(); i++ {
			normalizeSlot(slot.Index(i))
		}

	case reflect.Array:
		if !needsNormalize(slot.Type().Elem()) {
			return
		}
		for i := 0; i < slot.Len(); i++ {
			normalizeSlot(slot.Index(i))
		}

	case reflect.Map:
		if slot.IsNil() {
			if slot.CanSet() {
				slot.Set(reflect.MakeMapWithSize(slot.Type(), 0))
			}
			return
		}
		et := slot.Type().Elem()
		if !needsNormalize(et) {
			return
		}
		// Map values are not addressable: copy out, normalize, store back.
		keys := slot.MapKeys()
		for _, k := range keys {
			tmp := reflect.New(et).Elem()
			tmp.Set(slot.MapIndex(k))
			normalizeSlot(tmp)
			slot.SetMapIndex(k, tmp)
		}

	case reflect.Struct:
		plan := planFor(slot.Type())
		for _, path := range plan.fields {
			normalizeSlot(slot.FieldByIndex(path))
		}
	}
}

// buildPlan scans a struct type and records which fields normalization
// must visit.
func buildPlan(rt reflect.Type) *structPlan {
	meta := scanType(rt)
	plan := &structPlan{typeName: meta.TypeName}
	for _, f := range meta.Fields {
		if needsNormalize(f.ReflectType) {
			path := make([]int, len(f.Index))
			copy(path, f.Index)
			plan.fields = append(plan.fields, path)
		}
	}
	return plan
}

// scanType returns sentinel metadata for a struct type. Types already scanned
// through sentinel (by this process or a sibling package) are served from its
// registry; anything else gets a local scan of the exported fields.
func scanType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	fields := make([]sentinel.FieldMetadata, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		if sf := rt.Field(i); sf.IsExported() {
			fields = append(fields, fieldMetadata(sf))
		}
	}
	return sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      fields,
	}
}

// fieldMetadata describes one exported struct field in sentinel's terms.
func fieldMetadata(sf reflect.StructField) sentinel.FieldMetadata {
	fm := sentinel.FieldMetadata{
		Name:        sf.Name,
		Type:        sf.Type.String(),
		ReflectType: sf.Type,
		Index:       sf.Index,
		Tags:        jsonTags(sf.Tag),
	}
	switch sf.Type.Kind() {
	case reflect.Struct:
		fm.Kind = sentinel.KindStruct
	case reflect.Ptr:
		fm.Kind = sentinel.KindPointer
	case reflect.Slice, reflect.Array:
		fm.Kind = sentinel.KindSlice
	case reflect.Map:
		fm.Kind = sentinel.KindMap
	case reflect.Interface:
		fm.Kind = sentinel.KindInterface
	default:
		fm.Kind = sentinel.KindScalar
	}
	return fm
}

// jsonTags keeps only the json tag; normalization never consults any other.
func jsonTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	if val, ok := tag.Lookup("json"); ok {
		tags["json"] = val
	}
	return tags
}

// needsNormalize reports whether decoded values of type t can require the
// normalization pass. The result is memoized per type.
func needsNormalize(t reflect.Type) bool {
	if cached, ok := lookupNormalizable(t); ok {
		return cached
	}
	result := computeNeedsNormalize(t, make(map[reflect.Type]bool))
	storeNormalizable(t, result)
	return result
}

// computeNeedsNormalize walks a type. Cyclic struct types are treated as
// normalizable; decoded JSON data is acyclic, so the walk over values
// still terminates.
func computeNeedsNormalize(t reflect.Type, visiting map[reflect.Type]bool) bool {
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.String {
			return true
		}
		return computeNeedsNormalize(t.Elem(), visiting)
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Map:
		return true
	case reflect.Array:
		return computeNeedsNormalize(t.Elem(), visiting)
	case reflect.Struct:
		if t == timeType {
			return false
		}
		if visiting[t] {
			return true
		}
		visiting[t] = true
		defer delete(visiting, t)
		for _, f := range scanType(t).Fields {
			if computeNeedsNormalize(f.ReflectType, visiting) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
