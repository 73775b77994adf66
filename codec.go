package granola

import "encoding/json"

// Codec is the raw wire engine underneath a Mapper. The Mapper owns policy
// (empty-field pruning, null normalization, container freezing); the Codec
// only turns values into bytes and back.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// jsonCodec implements Codec over encoding/json. Unknown input fields are
// tolerated because encoding/json ignores them unless told otherwise, which
// is exactly the forward-compatibility default the policy requires.
type jsonCodec struct{}

// JSON returns the built-in JSON codec.
func JSON() Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
