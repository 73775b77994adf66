package granola

// Shape describes a generic target structure for ad-hoc decoding when the
// concrete schema is not known at compile time. Shapes carry no mutable
// state; the two process-wide singletons below are shared by every decode
// operation.
type Shape struct {
	name   string
	decode func(m *Mapper, data []byte) (any, error)
}

var (
	mapShape = &Shape{
		name:   "map[string]any",
		decode: decodeMapShape,
	}
	listShape = &Shape{
		name:   "[]any",
		decode: decodeListShape,
	}
)

// MapShape returns the singleton shape for a generic string-keyed mapping.
// Decoding with it produces a Dict[any].
func MapShape() *Shape {
	return mapShape
}

// ListShape returns the singleton shape for a generic ordered list.
// Decoding with it produces a Seq[any].
func ListShape() *Shape {
	return listShape
}

// String returns the shape's target description.
func (s *Shape) String() string {
	return s.name
}

func decodeMapShape(m *Mapper, data []byte) (any, error) {
	var raw map[string]any
	if err := m.codec.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Dict[any]{entries: map[string]any{}}, nil
	}
	return freezeAny(raw), nil
}

func decodeListShape(m *Mapper, data []byte) (any, error) {
	var raw []any
	if err := m.codec.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Seq[any]{items: []any{}}, nil
	}
	return freezeAny(raw), nil
}
