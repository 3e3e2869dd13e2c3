package gateway

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
)

// PostboxItem is a transit cross message waiting to be propagated further,
// together with the accounts allowed to pay for its propagation.
type PostboxItem struct {
	Msg    common.CrossMsg
	Owners [][]byte
}

// ErrNotPropagator is thrown when the account is not allowed to act on the
// postbox item.
const ErrNotPropagator = "account is not an owner of the postbox item"

// GetPostboxItem returns the postbox item by its ID.
func GetPostboxItem(id []byte) PostboxItem {
	ctx := storage.GetReadOnlyContext()
	return getPostboxItem(ctx, id)
}

// WhitelistPropagator lets an existing item owner allow further accounts to
// propagate the item.
func WhitelistPropagator(owner interop.Hash160, id []byte, owners [][]byte) {
	ctx := storage.GetContext()
	item := getPostboxItem(ctx, id)

	checkPropagator(item, owner)
	common.CheckOwnerWitness(owner)

	for i := 0; i < len(owners); i++ {
		acc := owners[i]
		if len(acc) != interop.Hash160Len {
			panic("invalid owner account")
		}
		if !isPropagator(item, acc) {
			item.Owners = append(item.Owners, acc)
		}
	}
	common.SetSerialized(ctx, postboxKey(id), item)
}

// Propagate pays the cross message fee and routes the postbox item further
// toward its target network, removing it from the postbox. It can be
// invoked by any whitelisted owner of the item.
func Propagate(payer interop.Hash160, id []byte) {
	ctx := storage.GetContext()
	item := getPostboxItem(ctx, id)

	checkPropagator(item, payer)
	common.CheckOwnerWitness(payer)

	fee := config(ctx, gatewayconst.CrossMsgFeeKey)
	transferToContract(payer, fee)

	storage.Delete(ctx, postboxKey(id))
	routeCrossMsg(ctx, currentNetwork(ctx), item.Msg, fee)

	runtime.Notify("MessagePropagated", id)
}

// parkInPostbox stores a transit message under the digest of its serialized
// form. The message sender starts as the only allowed propagator.
func parkInPostbox(ctx storage.Context, msg common.CrossMsg) {
	id := crypto.Sha256(std.Serialize(msg))
	item := PostboxItem{
		Msg:    msg,
		Owners: [][]byte{msg.Msg.From.Raw},
	}
	common.SetSerialized(ctx, postboxKey(id), item)

	runtime.Notify("MessageParked", id)
}

func postboxKey(id []byte) []byte {
	return append([]byte{postboxPrefix}, id...)
}

func getPostboxItem(ctx storage.Context, id []byte) PostboxItem {
	data := storage.Get(ctx, postboxKey(id))
	if data == nil {
		panic(gatewayconst.NotFoundError)
	}
	return std.Deserialize(data.([]byte)).(PostboxItem)
}

func checkPropagator(item PostboxItem, acc interop.Hash160) {
	if !isPropagator(item, acc) {
		panic(ErrNotPropagator)
	}
}

func isPropagator(item PostboxItem, acc interop.Hash160) bool {
	for i := 0; i < len(item.Owners); i++ {
		if common.BytesEqual(item.Owners[i], acc) {
			return true
		}
	}
	return false
}
