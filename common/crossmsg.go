package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

type (
	// IPCAddress identifies a principal within the hierarchy: an account
	// hash qualified by the subnet it lives in.
	IPCAddress struct {
		Subnet SubnetID
		Raw    interop.Hash160
	}

	// StorableMsg is a value-bearing message moving between subnets. Nonce
	// is assigned at acceptance time by the sequencer of the direction the
	// message travels in (per-subnet top-down or global bottom-up).
	StorableMsg struct {
		From   IPCAddress
		To     IPCAddress
		Value  int
		Nonce  int
		Method string
		Params []byte
	}

	// CrossMsg is a StorableMsg together with the wrapped flag telling a
	// fee-bearing wrapper from a raw message.
	CrossMsg struct {
		Msg     StorableMsg
		Wrapped bool
	}

	// TopDownCheckpoint summarizes messages flowing into child subnets at
	// one epoch boundary. Validators of the child vote on its digest.
	TopDownCheckpoint struct {
		Epoch int
		Msgs  []CrossMsg
	}

	// ChildSummary lists digests of the checkpoints a single child subnet
	// committed within a window.
	ChildSummary struct {
		Source  SubnetID
		Digests [][]byte
	}

	// BottomUpCheckpoint accumulates messages and fees reported up to the
	// parent for one window. PrevDigest chains it to the checkpoint of the
	// preceding window.
	BottomUpCheckpoint struct {
		Source     SubnetID
		Epoch      int
		Fee        int
		Msgs       []CrossMsg
		PrevDigest []byte
		Children   []ChildSummary
	}
)

// Digest returns the structural digest of any serializable value: SHA-256
// over its canonical std.Serialize form. Checkpoints and postbox items are
// identified and compared by it, never by deep structural walks.
func Digest(v interface{}) []byte {
	return crypto.Sha256(std.Serialize(v))
}
