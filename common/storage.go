package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key interface{}, value interface{}) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// ToFixedWidth encodes a non-negative int as an 8-byte big-endian slice.
// Keys built with it keep numeric order under the byte-wise ordering of
// storage.Find, which the epoch queue and per-subnet message buffers rely on.
func ToFixedWidth(n int) []byte {
	if n < 0 {
		panic("negative value in fixed-width key")
	}
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	for i := 7; i >= 0; i-- {
		b[i] = byte(n & 0xff)
		n = n >> 8
	}
	return b
}

// FromFixedWidth decodes an 8-byte big-endian slice produced by ToFixedWidth.
func FromFixedWidth(b []byte) int {
	n := 0
	for i := 0; i < len(b); i++ {
		n = n<<8 + int(b[i])
	}
	return n
}
