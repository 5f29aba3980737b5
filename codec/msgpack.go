package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack is a Codec backed by vmihailenco/msgpack/v5. Map keys are sorted
// so equal results encode to equal bytes. Tag selects the struct tag used
// for field names ("" => `msgpack`); set it to "json" to reuse JSON tags.
type Msgpack[V any] struct {
	Tag string
}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (m Msgpack[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if m.Tag != "" {
		enc.SetCustomStructTag(m.Tag)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	if m.Tag != "" {
		dec.SetCustomStructTag(m.Tag)
	}
	err := dec.Decode(&v)
	return v, err
}
