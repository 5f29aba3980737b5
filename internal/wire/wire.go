package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("memoize: corrupt entry")
	magic4     = [...]byte{'M', 'E', 'M', 'O'}
)

// Entry: magic(4) | ver(1) | gen(u64 be) | vlen(u32 be) | payload(vlen)
func Encode(gen uint64, payload []byte) []byte {
	b := make([]byte, hdrLen, hdrLen+len(payload))
	copy(b, magic4[:])
	b[4] = version
	binary.BigEndian.PutUint64(b[5:13], gen)
	binary.BigEndian.PutUint32(b[13:17], uint32(len(payload)))
	return append(b, payload...)
}

// Decode returns the generation and a payload slice aliasing b.
func Decode(b []byte) (gen uint64, payload []byte, err error) {
	if len(b) < hdrLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	gen = binary.BigEndian.Uint64(b[5:13])
	vlen := int(binary.BigEndian.Uint32(b[13:17]))
	if vlen != len(b)-hdrLen { // no short payloads, no trailing bytes
		return 0, nil, ErrCorrupt
	}
	return gen, b[hdrLen:], nil
}
