package registry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/registry/substate"
)

// Subnet groups data of a child network registered under the current one.
// Records are keyed by the structural digest of the route.
type Subnet struct {
	// Route of the subnet from the root network down.
	Route [][]byte

	// Owner is the account that registered the subnet and runs its actor.
	Owner interop.Hash160

	// Collateral currently held for the subnet.
	Stake int

	// Current record state.
	Status substate.Type

	// Next nonce to assign to an outbound top-down message.
	TopDownNonce int

	// Value injected into the subnet and not yet returned.
	CircSupply int
}

const (
	// ErrNotGateway is thrown when a mutator is called by anyone but the
	// Gateway contract.
	ErrNotGateway = "caller is not the gateway contract"
	// ErrAlreadyRegistered is thrown on re-registration of a live subnet.
	ErrAlreadyRegistered = "subnet has been already registered"
	// ErrNotRegistered is thrown when no record exists for the subnet.
	ErrNotRegistered = "subnet is not registered"
	// ErrInsufficientCollateral is thrown when the first registration does
	// not reach the minimum collateral.
	ErrInsufficientCollateral = "not enough collateral to register subnet"
	// ErrZeroAmount is thrown on zero or negative stake adjustments.
	ErrZeroAmount = "amount must be positive"
	// ErrStakeExceeded is thrown when a release exceeds the held stake.
	ErrStakeExceeded = "release exceeds held stake"
	// ErrNonZeroCircSupply is thrown on an attempt to kill a subnet that
	// still holds circulating supply.
	ErrNonZeroCircSupply = "circulating supply is not zero"
	// ErrSupplyExceeded is thrown when a release exceeds the tracked
	// circulating supply.
	ErrSupplyExceeded = "release exceeds circulating supply"
	// ErrInvalidOwner is thrown when owner has invalid format.
	ErrInvalidOwner = "invalid owner"
)

const (
	recordPrefix  = 'r'
	topDownPrefix = 't'

	gatewayContractKey = "gatewayScriptHash"
	networkRouteKey    = "networkRoute"
	minCollateralKey   = "minCollateral"
	totalSubnetsKey    = "totalSubnets"
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
		gateway       interop.Hash160
		route         [][]byte
		minCollateral int
	})

	if len(args.gateway) != interop.Hash160Len {
		panic("incorrect gateway contract script hash")
	}
	if args.minCollateral <= 0 {
		panic("incorrect minimum collateral")
	}
	common.CheckRoute(common.SubnetID{Route: args.route})

	storage.Put(ctx, gatewayContractKey, args.gateway)
	common.SetSerialized(ctx, networkRouteKey, args.route)
	storage.Put(ctx, minCollateralKey, args.minCollateral)
	storage.Put(ctx, totalSubnetsKey, 0)

	runtime.Log("registry contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("registry contract updated")
}

// Register creates a record for the subnet derived from the owner account
// under the current network. The collateral must reach the minimum; the
// record starts Active. It can be invoked only by the Gateway contract,
// which is responsible for the owner witness and the collateral transfer.
// Returns the structural digest keying the new record.
func Register(owner interop.Hash160, amount int) []byte {
	checkGateway()
	if len(owner) != interop.Hash160Len {
		panic(ErrInvalidOwner)
	}

	ctx := storage.GetContext()
	if amount < minCollateral(ctx) {
		panic(ErrInsufficientCollateral)
	}

	id := common.ChildSubnetID(networkID(ctx), owner)
	digest := common.SubnetIDDigest(id)
	if storage.Get(ctx, recordKey(digest)) != nil {
		panic(ErrAlreadyRegistered)
	}

	sh := Subnet{
		Route:        id.Route,
		Owner:        owner,
		Stake:        amount,
		Status:       substate.Active,
		TopDownNonce: 0,
		CircSupply:   0,
	}
	putSubnet(ctx, digest, sh)

	total := storage.Get(ctx, totalSubnetsKey).(int)
	storage.Put(ctx, totalSubnetsKey, total+1)

	return digest
}

// AddStake increases collateral held for the owner's subnet and reactivates
// a drained record. It can be invoked only by the Gateway contract.
func AddStake(owner interop.Hash160, amount int) {
	checkGateway()
	if amount <= 0 {
		panic(ErrZeroAmount)
	}

	ctx := storage.GetContext()
	digest, sh := getSubnetOfOwner(ctx, owner)

	sh.Stake += amount
	if sh.Status == substate.Inactive {
		sh.Status = substate.Active
	}
	putSubnet(ctx, digest, sh)
}

// ReleaseStake decreases collateral held for the owner's subnet. Releasing
// more than held panics; draining the stake to zero flips the record to
// Inactive. It can be invoked only by the Gateway contract, which pays the
// released amount out.
func ReleaseStake(owner interop.Hash160, amount int) {
	checkGateway()
	if amount <= 0 {
		panic(ErrZeroAmount)
	}

	ctx := storage.GetContext()
	digest, sh := getSubnetOfOwner(ctx, owner)
	if amount > sh.Stake {
		panic(ErrStakeExceeded)
	}

	sh.Stake -= amount
	if sh.Stake == 0 {
		sh.Status = substate.Inactive
	}
	putSubnet(ctx, digest, sh)
}

// Kill removes the owner's subnet record together with its buffered top-down
// messages and returns the stake to refund. A subnet still holding
// circulating supply cannot be killed. It can be invoked only by the Gateway
// contract.
func Kill(owner interop.Hash160) int {
	checkGateway()

	ctx := storage.GetContext()
	digest, sh := getSubnetOfOwner(ctx, owner)
	if sh.CircSupply != 0 {
		panic(ErrNonZeroCircSupply)
	}

	refund := sh.Stake

	storage.Delete(ctx, recordKey(digest))
	it := storage.Find(ctx, append([]byte{topDownPrefix}, digest...), storage.KeysOnly)
	for iterator.Next(it) {
		storage.Delete(ctx, iterator.Value(it).([]byte))
	}

	total := storage.Get(ctx, totalSubnetsKey).(int)
	storage.Put(ctx, totalSubnetsKey, total-1)

	return refund
}

// CommitTopDown sequences a cross message into the outbound top-down buffer
// of the subnet keyed by the digest: the message receives the subnet's next
// outbound nonce and the carried value joins the subnet's circulating supply.
// It can be invoked only by the Gateway contract. Returns the assigned nonce.
func CommitTopDown(digest []byte, msg common.CrossMsg) int {
	checkGateway()

	ctx := storage.GetContext()
	sh := getSubnet(ctx, digest)

	nonce := sh.TopDownNonce
	msg.Msg.Nonce = nonce
	sh.TopDownNonce = nonce + 1
	sh.CircSupply += msg.Msg.Value

	common.SetSerialized(ctx, topDownKey(digest, nonce), msg)
	putSubnet(ctx, digest, sh)

	return nonce
}

// ReleaseCircSupply returns part of the subnet's circulating supply when
// value travels back up. It can be invoked only by the Gateway contract.
func ReleaseCircSupply(digest []byte, amount int) {
	checkGateway()
	if amount <= 0 {
		panic(ErrZeroAmount)
	}

	ctx := storage.GetContext()
	sh := getSubnet(ctx, digest)
	if amount > sh.CircSupply {
		panic(ErrSupplyExceeded)
	}
	sh.CircSupply -= amount
	putSubnet(ctx, digest, sh)
}

// Get returns the record of the subnet keyed by the digest.
func Get(digest []byte) Subnet {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, recordKey(digest))
	if data == nil {
		panic(ErrNotRegistered)
	}
	return std.Deserialize(data.([]byte)).(Subnet)
}

// TopDownMsgsFromNonce returns buffered outbound top-down messages of the
// subnet starting from the given nonce, in nonce order.
func TopDownMsgsFromNonce(digest []byte, nonce int) []common.CrossMsg {
	ctx := storage.GetReadOnlyContext()
	result := []common.CrossMsg{}

	it := storage.Find(ctx, append([]byte{topDownPrefix}, digest...), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		msg := iterator.Value(it).(common.CrossMsg)
		if msg.Msg.Nonce >= nonce {
			result = append(result, msg)
		}
	}
	return result
}

// TopDownNonce returns the next outbound top-down nonce of the subnet.
func TopDownNonce(digest []byte) int {
	return Get(digest).TopDownNonce
}

// CirculatingSupply returns the value injected into the subnet and not yet
// returned.
func CirculatingSupply(digest []byte) int {
	return Get(digest).CircSupply
}

// IterateSubnets returns an iterator over all registered subnet records.
func IterateSubnets() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{recordPrefix}, storage.ValuesOnly|storage.DeserializeValues)
}

// TotalSubnets returns the number of registered subnets.
func TotalSubnets() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, totalSubnetsKey).(int)
}

// MinCollateral returns the minimum collateral required to register a subnet.
func MinCollateral() int {
	return minCollateral(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkGateway() {
	ctx := storage.GetReadOnlyContext()
	gateway := storage.Get(ctx, gatewayContractKey).(interop.Hash160)
	if !common.BytesEqual(runtime.GetCallingScriptHash(), gateway) {
		panic(ErrNotGateway)
	}
}

func networkID(ctx storage.Context) common.SubnetID {
	route := std.Deserialize(storage.Get(ctx, networkRouteKey).([]byte)).([][]byte)
	return common.SubnetID{Route: route}
}

func minCollateral(ctx storage.Context) int {
	return storage.Get(ctx, minCollateralKey).(int)
}

func getSubnet(ctx storage.Context, digest []byte) Subnet {
	data := storage.Get(ctx, recordKey(digest))
	if data == nil {
		panic(ErrNotRegistered)
	}
	return std.Deserialize(data.([]byte)).(Subnet)
}

func getSubnetOfOwner(ctx storage.Context, owner interop.Hash160) ([]byte, Subnet) {
	digest := common.SubnetIDDigest(common.ChildSubnetID(networkID(ctx), owner))
	return digest, getSubnet(ctx, digest)
}

func putSubnet(ctx storage.Context, digest []byte, sh Subnet) {
	common.SetSerialized(ctx, recordKey(digest), sh)
}

func recordKey(digest []byte) []byte {
	return append([]byte{recordPrefix}, digest...)
}

func topDownKey(digest []byte, nonce int) []byte {
	key := append([]byte{topDownPrefix}, digest...)
	return append(key, common.ToFixedWidth(nonce)...)
}
