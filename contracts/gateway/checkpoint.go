package gateway

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
)

const (
	// ErrNonceGap is thrown when an applied top-down message does not
	// carry the next expected nonce.
	ErrNonceGap = "top-down message breaks nonce sequence"
	// ErrEpochMismatch is thrown when the checkpoint body carries an
	// epoch off the checkpoint lattice.
	ErrEpochMismatch = "checkpoint epoch is not on the lattice"
	// ErrNotChild is thrown when a bottom-up checkpoint source is not a
	// direct child of the current network.
	ErrNotChild = "checkpoint source is not a child of the current network"
	// ErrNotSubnetOwner is thrown when a bottom-up checkpoint is
	// submitted by anyone but the source subnet owner.
	ErrNotSubnetOwner = "not the owner of the source subnet"
	// ErrBrokenChain is thrown when a bottom-up checkpoint does not link
	// to the previously committed one.
	ErrBrokenChain = "checkpoint does not link to the previous one"
	// ErrNoCheckpoint is thrown when no checkpoint exists for the epoch.
	ErrNoCheckpoint = "no checkpoint for the epoch"
	// ErrEpochFinalized is thrown when a vote arrives for an epoch whose
	// checkpoint already reached consensus and waits in the executable
	// queue.
	ErrEpochFinalized = "checkpoint for the epoch is already finalized"
)

// subnetRecord mirrors the registry contract record layout.
type subnetRecord struct {
	Route        [][]byte
	Owner        interop.Hash160
	Stake        int
	Status       int
	TopDownNonce int
	CircSupply   int
}

// SubmitTopDownCheckpoint casts the validator's vote for the serialized
// top-down checkpoint of its epoch. Once votes for one digest exceed the
// majority share of the total validator weight, the checkpoint is executed
// when its epoch directly follows the last executed one, and queued
// otherwise. Execution applies the checkpoint messages in nonce order,
// dispatches the ones addressed to the current network and parks transit
// ones in the postbox, then keeps executing queued checkpoints while their
// epochs stay consecutive. An epoch finalized into the queue accepts no
// further votes. Returns the vote outcome.
func SubmitTopDownCheckpoint(pub interop.PublicKey, checkpoint []byte) int {
	ctx := storage.GetContext()
	checkDispatchLock(ctx)

	if len(pub) != interop.PublicKeyCompressedLen {
		panic(ErrInvalidPublicKey)
	}
	weight := validatorWeight(ctx, pub)
	if weight == 0 {
		panic(ErrNotValidator)
	}
	if !runtime.CheckWitness(pub) {
		panic(common.ErrWitnessFailed)
	}

	cp := std.Deserialize(checkpoint).(common.TopDownCheckpoint)
	period := config(ctx, gatewayconst.CheckpointPeriodKey)
	common.CheckVotableEpoch(ctx, cp.Epoch, period)
	if storage.Get(ctx, pendingKey(cp.Epoch)) != nil {
		panic(ErrEpochFinalized)
	}

	digest := crypto.Sha256(checkpoint)
	total := storage.Get(ctx, totalWeightKey).(int)
	majority := config(ctx, gatewayconst.MajorityPercentageKey)

	outcome := common.SubmitVote(ctx, cp.Epoch, pub, weight, digest, total, majority)
	if outcome != common.VoteConsensusReached {
		return outcome
	}

	if cp.Epoch == common.LastExecutedEpoch(ctx)+period {
		local := executeTopDown(ctx, cp)
		common.MarkExecutedEpoch(ctx, cp.Epoch)
		runtime.Notify("CheckpointExecuted", cp.Epoch)

		local = append(local, drainExecutableQueue(ctx, period)...)
		dispatch(ctx, local)
	} else {
		storage.Put(ctx, pendingKey(cp.Epoch), checkpoint)
		common.EnqueueEpoch(ctx, cp.Epoch, period)
		runtime.Notify("CheckpointQueued", cp.Epoch)
	}

	return outcome
}

// SubmitCheckpoint commits a checkpoint of a child subnet travelling up. It
// can be invoked only by the owner of the source subnet and must link to
// the previously committed checkpoint of that subnet. Messages and fees
// carried by the checkpoint are folded into the checkpoint of the current
// window under fresh global nonces, and the value leaving the child is
// written off its circulating supply.
func SubmitCheckpoint(owner interop.Hash160, checkpoint []byte) {
	ctx := storage.GetContext()
	checkDispatchLock(ctx)
	common.CheckOwnerWitness(owner)

	cp := std.Deserialize(checkpoint).(common.BottomUpCheckpoint)
	current := currentNetwork(ctx)
	source := cp.Source
	if len(source.Route) != len(current.Route)+1 ||
		!common.IsStrictAncestorSubnet(current, source) {
		panic(ErrNotChild)
	}

	period := config(ctx, gatewayconst.CheckpointPeriodKey)
	if cp.Epoch <= 0 || cp.Epoch%period != 0 {
		panic(ErrEpochMismatch)
	}

	srcDigest := common.SubnetIDDigest(source)
	rec := contract.Call(registryContract(ctx), "get",
		contract.ReadOnly, srcDigest).(subnetRecord)
	if !common.BytesEqual(rec.Owner, owner) {
		panic(ErrNotSubnetOwner)
	}

	// explicitly empty so that the VM compares it to the empty PrevDigest
	// of a first checkpoint as equal
	prev := []byte{}
	if stored := storage.Get(ctx, childDigestKey(srcDigest)); stored != nil {
		prev = stored.([]byte)
	}
	if !common.BytesEqual(prev, cp.PrevDigest) {
		panic(ErrBrokenChain)
	}
	storage.Put(ctx, childDigestKey(srcDigest), crypto.Sha256(checkpoint))

	epoch := currentWindowEpoch(ctx)
	win := windowCheckpoint(ctx, epoch)

	released := 0
	digests := [][]byte{}
	nonce := storage.Get(ctx, bottomUpNonceKey).(int)
	for i := 0; i < len(cp.Msgs); i++ {
		msg := cp.Msgs[i]
		released += msg.Msg.Value
		msg.Msg.Nonce = nonce
		nonce++
		win.Msgs = append(win.Msgs, msg)
		digests = append(digests, common.Digest(msg))
	}
	storage.Put(ctx, bottomUpNonceKey, nonce)

	win.Fee += cp.Fee
	win.Children = append(win.Children, common.ChildSummary{
		Source:  source,
		Digests: digests,
	})
	putWindowCheckpoint(ctx, epoch, win)

	if released > 0 {
		contract.Call(registryContract(ctx), "releaseCircSupply",
			contract.All, srcDigest, released)
	}

	runtime.Notify("BottomUpCheckpointCommitted", source.Route, cp.Epoch)
}

// BottomUpCheckpoint returns the serialized checkpoint accumulated for the
// window epoch.
func BottomUpCheckpoint(epoch int) []byte {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, bottomUpKey(epoch))
	if data == nil {
		panic(ErrNoCheckpoint)
	}
	return data.([]byte)
}

// executeTopDown applies checkpoint messages in nonce order. Messages
// addressed to the current network are returned for dispatch, transit ones
// are parked in the postbox. A nonce out of sequence aborts the whole
// submission.
func executeTopDown(ctx storage.Context, cp common.TopDownCheckpoint) []common.CrossMsg {
	current := currentNetwork(ctx)
	applied := storage.Get(ctx, appliedTopDownNonceKey).(int)

	local := []common.CrossMsg{}
	for i := 0; i < len(cp.Msgs); i++ {
		msg := cp.Msgs[i]
		if msg.Msg.Nonce != applied {
			panic(ErrNonceGap)
		}
		applied++

		if common.SubnetIDEqual(msg.Msg.To.Subnet, current) {
			local = append(local, msg)
		} else {
			parkInPostbox(ctx, msg)
		}
	}
	storage.Put(ctx, appliedTopDownNonceKey, applied)

	return local
}

// drainExecutableQueue keeps executing queued checkpoints while the
// smallest queued epoch directly follows the last executed one.
func drainExecutableQueue(ctx storage.Context, period int) []common.CrossMsg {
	local := []common.CrossMsg{}
	for {
		epoch, ready := common.NextExecutableEpoch(ctx, period)
		if !ready {
			break
		}

		blob := storage.Get(ctx, pendingKey(epoch)).([]byte)
		storage.Delete(ctx, pendingKey(epoch))

		cp := std.Deserialize(blob).(common.TopDownCheckpoint)
		local = append(local, executeTopDown(ctx, cp)...)
		common.MarkExecutedEpoch(ctx, epoch)
		runtime.Notify("CheckpointExecuted", epoch)
	}
	return local
}

// dispatch delivers messages addressed to accounts of the current network.
// A storage flag blocks checkpoint submissions from dispatched payloads.
// Failure of a single message never aborts the finalized checkpoint.
func dispatch(ctx storage.Context, msgs []common.CrossMsg) {
	if len(msgs) == 0 {
		return
	}

	storage.Put(ctx, dispatchLockKey, 1)
	for i := 0; i < len(msgs); i++ {
		dispatchMsg(msgs[i])
	}
	storage.Delete(ctx, dispatchLockKey)
}

func dispatchMsg(msg common.CrossMsg) {
	defer func() {
		if r := recover(); r != nil {
			runtime.Notify("DispatchFailed", msg.Msg.To.Raw, msg.Msg.Nonce)
		}
	}()

	if msg.Msg.Value > 0 {
		transferFromContract(msg.Msg.To.Raw, msg.Msg.Value)
	}
	if msg.Msg.Method != "" {
		// a call to a missing contract or method faults the VM beyond
		// recover, so the target manifest is checked first
		target := management.GetContract(msg.Msg.To.Raw)
		if target == nil || !hasMethod(target, msg.Msg.Method, 1) {
			runtime.Notify("DispatchFailed", msg.Msg.To.Raw, msg.Msg.Nonce)
			return
		}
		contract.Call(msg.Msg.To.Raw, msg.Msg.Method, contract.All, msg.Msg.Params)
	}
}

// hasMethod reports whether the deployed contract exposes a method with the
// given name and parameter count.
func hasMethod(c *management.Contract, name string, args int) bool {
	methods := c.Manifest.ABI.Methods
	for i := 0; i < len(methods); i++ {
		if methods[i].Name == name && len(methods[i].Params) == args {
			return true
		}
	}
	return false
}

// currentWindowEpoch returns the checkpoint epoch the current block height
// falls into.
func currentWindowEpoch(ctx storage.Context) int {
	period := config(ctx, gatewayconst.CheckpointPeriodKey)
	h := ledger.CurrentIndex()

	epoch := (h + period - 1) / period * period
	if epoch == 0 {
		epoch = period
	}
	return epoch
}

func windowCheckpoint(ctx storage.Context, epoch int) common.BottomUpCheckpoint {
	data := storage.Get(ctx, bottomUpKey(epoch))
	if data != nil {
		return std.Deserialize(data.([]byte)).(common.BottomUpCheckpoint)
	}

	prev := []byte{}
	if stored := storage.Get(ctx, prevBottomUpDigestKey); stored != nil {
		prev = stored.([]byte)
	}
	return common.BottomUpCheckpoint{
		Source:     currentNetwork(ctx),
		Epoch:      epoch,
		Fee:        0,
		Msgs:       []common.CrossMsg{},
		PrevDigest: prev,
		Children:   []common.ChildSummary{},
	}
}

func putWindowCheckpoint(ctx storage.Context, epoch int, cp common.BottomUpCheckpoint) {
	data := std.Serialize(cp)
	storage.Put(ctx, bottomUpKey(epoch), data)
	storage.Put(ctx, prevBottomUpDigestKey, crypto.Sha256(data))
}

func bottomUpKey(epoch int) []byte {
	return append([]byte{bottomUpPrefix}, common.ToFixedWidth(epoch)...)
}

func pendingKey(epoch int) []byte {
	return append([]byte{pendingPrefix}, common.ToFixedWidth(epoch)...)
}

func childDigestKey(digest []byte) []byte {
	return append([]byte{childDigestPrefix}, digest...)
}
