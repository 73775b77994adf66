package granola

import (
	"context"
	"reflect"
	"time"
)

// Mapper is the policy engine. Every Mapper built by New enforces the same
// mandatory rules on both directions of the wire:
//
//   - Encoding drops empty fields instead of writing null, "" or empty
//     containers.
//   - time.Time encodes as RFC 3339 text.
//   - Decoding ignores unknown input fields.
//   - Decoding "" into a *string field yields nil.
//   - Decoding null or absent input into a slice or map field yields an
//     empty container.
//
// A Mapper is immutable after construction and safe for unlimited
// concurrent use. Consumers share one instance by convention (see Default);
// calling New twice returns two independent engines with identical
// behavior.
type Mapper struct {
	codec    Codec
	encoders map[reflect.Type]EncoderFunc
}

// New builds a Mapper. Construction is pure assembly and never fails; all
// registered extension modules are applied once, here.
func New() *Mapper {
	opts := Options{encoders: make(map[reflect.Type]EncoderFunc)}
	for _, mod := range registeredModules() {
		mod.Install(&opts)
	}
	m := &Mapper{
		codec:    JSON(),
		encoders: opts.encoders,
	}
	emitMapperCreated(context.Background(), m.codec.ContentType(), len(opts.encoders))
	return m
}

// ContentType returns the MIME type the Mapper produces and consumes.
func (m *Mapper) ContentType() string {
	return m.codec.ContentType()
}

// Marshal encodes v under the policy: empty fields are omitted and
// timestamps are textual.
func (m *Mapper) Marshal(v any) ([]byte, error) {
	start := time.Now()

	var data []byte
	wire, err := m.prune(v)
	if err == nil {
		data, err = m.codec.Marshal(wire)
	}

	emitEncodeComplete(context.Background(), m.ContentType(), typeNameOf(v), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Unmarshal decodes data into v, then normalizes the result: empty *string
// fields become nil and nil slice/map fields become empty containers,
// recursively. Unknown input fields are ignored. Decode errors from
// malformed input come straight from the underlying codec.
func (m *Mapper) Unmarshal(data []byte, v any) error {
	start := time.Now()

	err := m.codec.Unmarshal(data, v)
	if err == nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && !rv.IsNil() {
			normalizeSlot(rv.Elem())
		}
	}

	emitDecodeComplete(context.Background(), m.ContentType(), typeNameOf(v), len(data), time.Since(start), err)
	return err
}

// DecodeShape decodes an arbitrary document into the loosely-typed target
// the shape describes: MapShape yields a Dict[any], ListShape a Seq[any].
// Nested containers are read-only all the way down.
func (m *Mapper) DecodeShape(data []byte, s *Shape) (any, error) {
	start := time.Now()

	out, err := s.decode(m, data)

	emitShapeDecodeComplete(context.Background(), m.ContentType(), s.String(), time.Since(start), err)
	return out, err
}

// typeNameOf names v's dynamic type for diagnostics.
func typeNameOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return t.String()
}
