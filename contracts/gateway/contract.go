package gateway

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
)

const (
	// ErrInvalidPublicKey is thrown on public keys of invalid length.
	ErrInvalidPublicKey = "invalid public key"
	// ErrNotValidator is thrown when the submitter carries no weight in
	// the current membership.
	ErrNotValidator = "public key is not a member of the validator set"
	// ErrMembershipMismatch is thrown when membership arrays disagree.
	ErrMembershipMismatch = "public keys and weights must have the same length"
	// ErrZeroWeight is thrown on zero or negative validator weight.
	ErrZeroWeight = "validator weight must be positive"
	// ErrDispatchLocked is thrown when a dispatched payload calls back
	// into a checkpoint submission.
	ErrDispatchLocked = "reentrant call during message dispatch"
	// ErrTransferFailed is thrown when the GAS transfer backing an
	// operation does not succeed.
	ErrTransferFailed = "failed to transfer GAS, aborting"
	// ErrNotPlainAccount is thrown when an account expected to be a plain
	// signer turns out to be a deployed contract.
	ErrNotPlainAccount = "account is a deployed contract"
)

const (
	validatorPrefix   = 'm'
	bottomUpPrefix    = 'b'
	pendingPrefix     = 'e'
	postboxPrefix     = 'p'
	childDigestPrefix = 'c'

	registryContractKey    = "registryScriptHash"
	networkRouteKey        = "networkRoute"
	totalWeightKey         = "totalValidatorWeight"
	bottomUpNonceKey       = "bottomUpNonce"
	appliedTopDownNonceKey = "appliedTopDownNonce"
	prevBottomUpDigestKey  = "prevBottomUpDigest"
	dispatchLockKey        = "dispatchLock"

	configPrefix = "config"

	// marker of a GAS transfer that must not be treated as a deposit
	ignoreDepositNotification = "\x57\x0b"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	var args = data.(struct {
		registry           interop.Hash160
		route              [][]byte
		checkpointPeriod   int
		majorityPercentage int
		crossMsgFee        int
	})

	if len(args.registry) != interop.Hash160Len {
		panic("incorrect registry contract script hash")
	}
	common.CheckRoute(common.SubnetID{Route: args.route})

	period := args.checkpointPeriod
	if period <= 0 {
		period = gatewayconst.DefaultCheckpointPeriod
	}
	majority := args.majorityPercentage
	if majority <= 0 || majority > 100 {
		majority = gatewayconst.DefaultMajorityPercentage
	}
	fee := args.crossMsgFee
	if fee <= 0 {
		fee = gatewayconst.DefaultCrossMsgFee
	}

	storage.Put(ctx, registryContractKey, args.registry)
	common.SetSerialized(ctx, networkRouteKey, args.route)
	storage.Put(ctx, totalWeightKey, 0)
	storage.Put(ctx, bottomUpNonceKey, 0)
	storage.Put(ctx, appliedTopDownNonceKey, 0)

	setConfig(ctx, gatewayconst.CheckpointPeriodKey, period)
	setConfig(ctx, gatewayconst.MajorityPercentageKey, majority)
	setConfig(ctx, gatewayconst.CrossMsgFeeKey, fee)

	runtime.Log("gateway contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("gateway contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// It rejects tokens of every other contract. Transfers produced by the
// contract's own operations carry a marker and are not treated as deposits.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	rcv := data.(interop.Hash160)
	if common.BytesEqual(rcv, []byte(ignoreDepositNotification)) {
		return
	}

	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, interop.Hash160(gas.Hash)) {
		common.AbortWithMessage("only GAS is accepted")
	}
	runtime.Notify("Deposit", from, amount)
}

// Register creates a record for the child subnet derived from the owner
// account, holding the collateral on the gateway account. The owner must
// witness the call and the amount must reach the registry's minimum
// collateral.
func Register(owner interop.Hash160, amount int) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	transferToContract(owner, amount)

	digest := contract.Call(registryContract(ctx), "register",
		contract.All, owner, amount).([]byte)

	runtime.Notify("SubnetRegistered", owner, digest, amount)
}

// AddStake adds collateral to the owner's subnet.
func AddStake(owner interop.Hash160, amount int) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	transferToContract(owner, amount)

	contract.Call(registryContract(ctx), "addStake", contract.All, owner, amount)
	runtime.Notify("StakeAdded", owner, amount)
}

// ReleaseStake returns part of the collateral of the owner's subnet back to
// the owner account.
func ReleaseStake(owner interop.Hash160, amount int) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	contract.Call(registryContract(ctx), "releaseStake", contract.All, owner, amount)
	transferFromContract(owner, amount)

	runtime.Notify("StakeReleased", owner, amount)
}

// Kill removes the owner's subnet record and refunds the remaining
// collateral. A subnet with outstanding circulating supply cannot be killed.
func Kill(owner interop.Hash160) {
	common.CheckOwnerWitness(owner)

	ctx := storage.GetContext()
	refund := contract.Call(registryContract(ctx), "kill", contract.All, owner).(int)
	if refund > 0 {
		transferFromContract(owner, refund)
	}

	runtime.Notify("SubnetKilled", owner, refund)
}

// SetMembership replaces the validator set used to finalize top-down
// checkpoints. It can be invoked only by committee. Votes of the current
// epoch keep the weights they were cast with.
func SetMembership(pubs []interop.PublicKey, weights []int) {
	common.CheckAlphabetWitness()

	if len(pubs) != len(weights) {
		panic(ErrMembershipMismatch)
	}

	ctx := storage.GetContext()

	it := storage.Find(ctx, []byte{validatorPrefix}, storage.KeysOnly)
	for iterator.Next(it) {
		storage.Delete(ctx, iterator.Value(it).([]byte))
	}

	total := 0
	for i := 0; i < len(pubs); i++ {
		pub := pubs[i]
		if len(pub) != interop.PublicKeyCompressedLen {
			panic(ErrInvalidPublicKey)
		}
		if weights[i] <= 0 {
			panic(ErrZeroWeight)
		}
		storage.Put(ctx, validatorKey(pub), weights[i])
		total += weights[i]
	}
	storage.Put(ctx, totalWeightKey, total)

	runtime.Notify("MembershipUpdated", len(pubs), total)
}

// CurrentNetwork returns the route of the network the contract serves.
func CurrentNetwork() [][]byte {
	ctx := storage.GetReadOnlyContext()
	return currentNetwork(ctx).Route
}

// TotalValidatorWeight returns the summed weight of the validator set.
func TotalValidatorWeight() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, totalWeightKey).(int)
}

// ValidatorWeight returns the weight of the public key in the current
// validator set, zero for non-members.
func ValidatorWeight(pub interop.PublicKey) int {
	ctx := storage.GetReadOnlyContext()
	return validatorWeight(ctx, pub)
}

// LastExecutedEpoch returns the checkpoint epoch executed most recently.
func LastExecutedEpoch() int {
	ctx := storage.GetReadOnlyContext()
	return common.LastExecutedEpoch(ctx)
}

// ExecutableQueue returns the epochs queued for execution in ascending
// order.
func ExecutableQueue() []int {
	ctx := storage.GetReadOnlyContext()
	return common.ExecutableQueue(ctx)
}

// AppliedTopDownNonce returns the nonce the next applied top-down message
// must carry.
func AppliedTopDownNonce() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, appliedTopDownNonceKey).(int)
}

// BottomUpNonce returns the next global nonce for messages travelling up.
func BottomUpNonce() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, bottomUpNonceKey).(int)
}

// CrossMsgFee returns the fee charged for a cross-network message.
func CrossMsgFee() int {
	ctx := storage.GetReadOnlyContext()
	return config(ctx, gatewayconst.CrossMsgFeeKey)
}

// CheckpointPeriod returns the epoch lattice period of checkpoints.
func CheckpointPeriod() int {
	ctx := storage.GetReadOnlyContext()
	return config(ctx, gatewayconst.CheckpointPeriodKey)
}

// MajorityPercentage returns the consensus threshold percentage.
func MajorityPercentage() int {
	ctx := storage.GetReadOnlyContext()
	return config(ctx, gatewayconst.MajorityPercentageKey)
}

// SetConfig sets a configuration value. It can be invoked only by committee.
func SetConfig(key string, val int) {
	common.CheckAlphabetWitness()
	if val <= 0 {
		panic("configuration value must be positive")
	}

	ctx := storage.GetContext()
	setConfig(ctx, key, val)
}

func config(ctx storage.Context, key string) int {
	return storage.Get(ctx, append([]byte(configPrefix), []byte(key)...)).(int)
}

func setConfig(ctx storage.Context, key string, val int) {
	storage.Put(ctx, append([]byte(configPrefix), []byte(key)...), val)
}

func currentNetwork(ctx storage.Context) common.SubnetID {
	route := std.Deserialize(storage.Get(ctx, networkRouteKey).([]byte)).([][]byte)
	return common.SubnetID{Route: route}
}

func registryContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, registryContractKey).(interop.Hash160)
}

func validatorKey(pub interop.PublicKey) []byte {
	return append([]byte{validatorPrefix}, pub...)
}

func validatorWeight(ctx storage.Context, pub interop.PublicKey) int {
	w := storage.Get(ctx, validatorKey(pub))
	if w == nil {
		return 0
	}
	return w.(int)
}

func checkPlainAccount(acc interop.Hash160) {
	if management.GetContract(acc) != nil {
		panic(ErrNotPlainAccount)
	}
}

func checkDispatchLock(ctx storage.Context) {
	if storage.Get(ctx, dispatchLockKey) != nil {
		panic(ErrDispatchLocked)
	}
}

func transferToContract(from interop.Hash160, amount int) {
	if amount <= 0 {
		panic("amount must be positive")
	}
	transferred := gas.Transfer(from, runtime.GetExecutingScriptHash(),
		amount, []byte(ignoreDepositNotification))
	if !transferred {
		panic(ErrTransferFailed)
	}
}

func transferFromContract(to interop.Hash160, amount int) {
	transferred := gas.Transfer(runtime.GetExecutingScriptHash(), to, amount, nil)
	if !transferred {
		panic(ErrTransferFailed)
	}
}
