package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (uint64, []byte) {
	t.Helper()
	gen, p, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	return gen, p
}

func TestRoundTripEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		gen     uint64
		payload []byte
	}{
		{0, nil},
		{42, []byte("hello")},
		{math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		gen, p := mustDecode(t, Encode(tc.gen, tc.payload))
		if gen != tc.gen {
			t.Fatalf("gen mismatch: got %d want %d", gen, tc.gen)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := Encode(7, []byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, _, err := Decode(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestCorruptHeadersAndLengths(t *testing.T) {
	enc := Encode(1, []byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := Decode(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := Decode(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// vlen is at offset 13..16 (4 magic +1 ver +8 gen)
	tooLong := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(tooLong[13:17], uint32(len("abc")+1))
	if _, _, err := Decode(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	if _, _, err := Decode(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
	if _, _, err := Decode([]byte("not-wire-format")); err == nil {
		t.Fatalf("expected error on foreign bytes")
	}
}

func TestZeroCopyPayload(t *testing.T) {
	enc := Encode(1, []byte("Z"))
	_, p := mustDecode(t, enc)
	p[0] = 'Q'
	_, p2 := mustDecode(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}
