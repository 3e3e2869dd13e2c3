package gateway

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
)

const (
	// ErrSameNetwork is thrown when a cross message targets the network
	// it was sent from.
	ErrSameNetwork = "message target is the current network"
	// ErrUnroutable is thrown when no path exists toward the target
	// network.
	ErrUnroutable = "no route to the target network"
	// ErrValueMismatch is thrown when the transferred amount does not
	// cover the message value plus the fee.
	ErrValueMismatch = "amount must equal message value plus fee"
	// ErrFeeNotCovered is thrown when the transferred amount does not
	// exceed the fee.
	ErrFeeNotCovered = "amount must exceed the cross message fee"
)

// Fund moves value from the signer account down into a descendant subnet.
// The signer must be a plain account and must witness the call; the amount
// must exceed the cross message fee. The remainder after the fee travels as
// a top-down message addressed to the same account in the target network.
func Fund(route [][]byte, signer interop.Hash160, amount int) {
	common.CheckOwnerWitness(signer)
	checkPlainAccount(signer)

	target := common.SubnetID{Route: route}
	common.CheckRoute(target)

	ctx := storage.GetContext()
	fee := config(ctx, gatewayconst.CrossMsgFeeKey)
	if amount <= fee {
		panic(ErrFeeNotCovered)
	}

	current := currentNetwork(ctx)
	if !common.IsStrictAncestorSubnet(current, target) {
		panic(ErrUnroutable)
	}

	transferToContract(signer, amount)

	msg := common.CrossMsg{
		Msg: common.StorableMsg{
			From:   common.IPCAddress{Subnet: current, Raw: signer},
			To:     common.IPCAddress{Subnet: target, Raw: signer},
			Value:  amount - fee,
			Method: "",
			Params: nil,
		},
		Wrapped: false,
	}

	nonce := commitTopDown(ctx, current, target, msg)
	runtime.Notify("Funded", signer, target.Route, amount-fee, nonce)
}

// Release moves value from the signer account up to the parent network. The
// remainder after the fee travels as a bottom-up message inside the current
// window checkpoint, addressed to the same account in the parent.
func Release(signer interop.Hash160, amount int) {
	common.CheckOwnerWitness(signer)
	checkPlainAccount(signer)

	ctx := storage.GetContext()
	fee := config(ctx, gatewayconst.CrossMsgFeeKey)
	if amount <= fee {
		panic(ErrFeeNotCovered)
	}

	current := currentNetwork(ctx)
	if len(current.Route) == 0 {
		panic(ErrUnroutable)
	}

	transferToContract(signer, amount)

	msg := common.CrossMsg{
		Msg: common.StorableMsg{
			From:   common.IPCAddress{Subnet: current, Raw: signer},
			To:     common.IPCAddress{Subnet: common.ParentSubnetID(current), Raw: signer},
			Value:  amount - fee,
			Method: "",
			Params: nil,
		},
		Wrapped: false,
	}

	nonce := commitBottomUp(ctx, msg, fee)
	runtime.Notify("Released", signer, amount-fee, nonce)
}

// SendCross routes an arbitrary message to another network. The transferred
// amount must equal the message value plus the fee. Unwrapped messages
// require a plain-account signer. The destination decides the direction:
// descendants are served top-down through the registry, everything else
// travels bottom-up toward the parent.
func SendCross(destination [][]byte, to interop.Hash160, signer interop.Hash160,
	amount int, value int, method string, params []byte, wrapped bool) {
	common.CheckOwnerWitness(signer)
	if !wrapped {
		checkPlainAccount(signer)
	}

	target := common.SubnetID{Route: destination}
	common.CheckRoute(target)

	ctx := storage.GetContext()
	current := currentNetwork(ctx)
	if common.SubnetIDEqual(current, target) {
		panic(ErrSameNetwork)
	}

	fee := config(ctx, gatewayconst.CrossMsgFeeKey)
	if value < 0 || amount != value+fee {
		panic(ErrValueMismatch)
	}

	transferToContract(signer, amount)

	msg := common.CrossMsg{
		Msg: common.StorableMsg{
			From:   common.IPCAddress{Subnet: current, Raw: signer},
			To:     common.IPCAddress{Subnet: target, Raw: to},
			Value:  value,
			Method: method,
			Params: params,
		},
		Wrapped: wrapped,
	}

	routeCrossMsg(ctx, current, msg, fee)
}

// routeCrossMsg classifies the message against the current network and
// commits it to the matching direction. Targets below the current network
// go top-down, the rest climbs to the parent. A root network has nowhere
// to climb.
func routeCrossMsg(ctx storage.Context, current common.SubnetID, msg common.CrossMsg, fee int) {
	target := msg.Msg.To.Subnet

	if common.IsStrictAncestorSubnet(current, target) {
		nonce := commitTopDown(ctx, current, target, msg)
		runtime.Notify("CrossMsgCommitted", target.Route, nonce, false)
		return
	}

	if len(current.Route) == 0 {
		panic(ErrUnroutable)
	}

	nonce := commitBottomUp(ctx, msg, fee)
	runtime.Notify("CrossMsgCommitted", target.Route, nonce, true)
}

// commitTopDown sequences the message into the outbound buffer of the
// direct child lying on the path to the target. The child assigns the
// nonce and accounts the carried value as circulating supply.
func commitTopDown(ctx storage.Context, current, target common.SubnetID, msg common.CrossMsg) int {
	next := common.NextHopSubnet(current, target)
	digest := common.SubnetIDDigest(next)

	return contract.Call(registryContract(ctx), "commitTopDown",
		contract.All, digest, msg).(int)
}

// commitBottomUp assigns the next global bottom-up nonce to the message and
// folds it together with the fee into the checkpoint of the current window.
func commitBottomUp(ctx storage.Context, msg common.CrossMsg, fee int) int {
	nonce := storage.Get(ctx, bottomUpNonceKey).(int)
	msg.Msg.Nonce = nonce
	storage.Put(ctx, bottomUpNonceKey, nonce+1)

	epoch := currentWindowEpoch(ctx)
	cp := windowCheckpoint(ctx, epoch)
	cp.Msgs = append(cp.Msgs, msg)
	cp.Fee += fee
	putWindowCheckpoint(ctx, epoch, cp)

	return nonce
}
