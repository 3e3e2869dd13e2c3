package registry

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ID is the structural digest keying a subnet record, in its binary form.
// The string form used in CLI and logs is base58.
type ID []byte

// String implements fmt.Stringer.
func (id ID) String() string {
	return base58.Encode(id)
}

// DecodeID parses the base58 string form of a subnet record key.
func DecodeID(s string) (ID, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid subnet ID %q: %w", s, err)
	}
	if len(data) != sha256.Size {
		return nil, fmt.Errorf("invalid subnet ID %q: wrong length %d", s, len(data))
	}
	return ID(data), nil
}
