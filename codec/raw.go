package codec

// Raw stores string- and byte-slice-shaped results as they are. Decode
// copies: providers such as ristretto hand back their own buffer, and a
// caller mutating its result must not rewrite the cached one.
type Raw[V ~string | ~[]byte] struct{}

type (
	Bytes  = Raw[[]byte]
	String = Raw[string]
)

var (
	_ Codec[[]byte] = Bytes{}
	_ Codec[string] = String{}
)

func (Raw[V]) Encode(v V) ([]byte, error) { return []byte(v), nil }

func (Raw[V]) Decode(b []byte) (V, error) {
	return V(append([]byte(nil), b...)), nil
}
