// Package codec converts memoized values to and from the bytes a
// ProviderCache hands to its Provider.
package codec

// Codec turns one memoized result into bytes and back. Decode must accept
// whatever Encode produced for the same V, across process restarts; entries
// it rejects are dropped and recomputed.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
