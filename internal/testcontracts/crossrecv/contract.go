package crossrecv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Store saves the received payload so tests can assert the dispatched call.
func Store(params []byte) {
	storage.Put(storage.GetContext(), "last", params)
}

// Reenter calls submitTopDownCheckpoint of the contract whose script hash
// is passed as the payload, so tests can observe the dispatch lock.
func Reenter(params []byte) {
	contract.Call(interop.Hash160(params), "submitTopDownCheckpoint",
		contract.All, []byte{}, []byte{})
}

// LastParams returns the payload of the latest received call, nil if there
// was none.
func LastParams() []byte {
	val := storage.Get(storage.GetReadOnlyContext(), "last")
	if val == nil {
		return nil
	}
	return val.([]byte)
}
