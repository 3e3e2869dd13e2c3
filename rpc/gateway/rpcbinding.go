// Package gateway contains RPC wrappers for IPC Gateway contract.
package gateway

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// CommonSubnetID is a contract-specific common.SubnetID type used by its methods.
type CommonSubnetID struct {
	Route [][]byte
}

// CommonIPCAddress is a contract-specific common.IPCAddress type used by its methods.
type CommonIPCAddress struct {
	Subnet *CommonSubnetID
	Raw    util.Uint160
}

// CommonStorableMsg is a contract-specific common.StorableMsg type used by its methods.
type CommonStorableMsg struct {
	From   *CommonIPCAddress
	To     *CommonIPCAddress
	Value  *big.Int
	Nonce  *big.Int
	Method string
	Params []byte
}

// CommonCrossMsg is a contract-specific common.CrossMsg type used by its methods.
type CommonCrossMsg struct {
	Msg     *CommonStorableMsg
	Wrapped bool
}

// GatewayPostboxItem is a contract-specific gateway.PostboxItem type used by its methods.
type GatewayPostboxItem struct {
	Msg    *CommonCrossMsg
	Owners [][]byte
}

// DepositEvent represents "Deposit" event emitted by the contract.
type DepositEvent struct {
	From   util.Uint160
	Amount *big.Int
}

// SubnetRegisteredEvent represents "SubnetRegistered" event emitted by the contract.
type SubnetRegisteredEvent struct {
	Owner  util.Uint160
	Digest []byte
	Stake  *big.Int
}

// SubnetKilledEvent represents "SubnetKilled" event emitted by the contract.
type SubnetKilledEvent struct {
	Owner  util.Uint160
	Refund *big.Int
}

// CheckpointExecutedEvent represents "CheckpointExecuted" event emitted by the contract.
type CheckpointExecutedEvent struct {
	Epoch *big.Int
}

// CheckpointQueuedEvent represents "CheckpointQueued" event emitted by the contract.
type CheckpointQueuedEvent struct {
	Epoch *big.Int
}

// MessageParkedEvent represents "MessageParked" event emitted by the contract.
type MessageParkedEvent struct {
	ID util.Uint256
}

// DispatchFailedEvent represents "DispatchFailed" event emitted by the contract.
type DispatchFailedEvent struct {
	To    util.Uint160
	Nonce *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// AppliedTopDownNonce invokes `appliedTopDownNonce` method of contract.
func (c *ContractReader) AppliedTopDownNonce() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "appliedTopDownNonce"))
}

// BottomUpCheckpoint invokes `bottomUpCheckpoint` method of contract.
func (c *ContractReader) BottomUpCheckpoint(epoch *big.Int) ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "bottomUpCheckpoint", epoch))
}

// BottomUpNonce invokes `bottomUpNonce` method of contract.
func (c *ContractReader) BottomUpNonce() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "bottomUpNonce"))
}

// CheckpointPeriod invokes `checkpointPeriod` method of contract.
func (c *ContractReader) CheckpointPeriod() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "checkpointPeriod"))
}

// CrossMsgFee invokes `crossMsgFee` method of contract.
func (c *ContractReader) CrossMsgFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "crossMsgFee"))
}

// CurrentNetwork invokes `currentNetwork` method of contract.
func (c *ContractReader) CurrentNetwork() ([][]byte, error) {
	return unwrap.ArrayOfBytes(c.invoker.Call(c.hash, "currentNetwork"))
}

// ExecutableQueue invokes `executableQueue` method of contract.
func (c *ContractReader) ExecutableQueue() ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "executableQueue"))
}

// GetPostboxItem invokes `getPostboxItem` method of contract.
func (c *ContractReader) GetPostboxItem(id []byte) (*GatewayPostboxItem, error) {
	return itemToGatewayPostboxItem(unwrap.Item(c.invoker.Call(c.hash, "getPostboxItem", id)))
}

// LastExecutedEpoch invokes `lastExecutedEpoch` method of contract.
func (c *ContractReader) LastExecutedEpoch() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "lastExecutedEpoch"))
}

// MajorityPercentage invokes `majorityPercentage` method of contract.
func (c *ContractReader) MajorityPercentage() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "majorityPercentage"))
}

// TotalValidatorWeight invokes `totalValidatorWeight` method of contract.
func (c *ContractReader) TotalValidatorWeight() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalValidatorWeight"))
}

// ValidatorWeight invokes `validatorWeight` method of contract.
func (c *ContractReader) ValidatorWeight(pub *keys.PublicKey) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "validatorWeight", pub))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Register creates a transaction invoking `register` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Register(owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "register", owner, amount)
}

// RegisterTransaction creates a transaction invoking `register` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterTransaction(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "register", owner, amount)
}

// RegisterUnsigned creates a transaction invoking `register` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterUnsigned(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "register", nil, owner, amount)
}

// AddStake creates a transaction invoking `addStake` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddStake(owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addStake", owner, amount)
}

// AddStakeTransaction creates a transaction invoking `addStake` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddStakeTransaction(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addStake", owner, amount)
}

// AddStakeUnsigned creates a transaction invoking `addStake` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddStakeUnsigned(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addStake", nil, owner, amount)
}

// ReleaseStake creates a transaction invoking `releaseStake` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ReleaseStake(owner util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "releaseStake", owner, amount)
}

// ReleaseStakeTransaction creates a transaction invoking `releaseStake` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ReleaseStakeTransaction(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "releaseStake", owner, amount)
}

// ReleaseStakeUnsigned creates a transaction invoking `releaseStake` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ReleaseStakeUnsigned(owner util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "releaseStake", nil, owner, amount)
}

// Kill creates a transaction invoking `kill` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Kill(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "kill", owner)
}

// KillTransaction creates a transaction invoking `kill` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) KillTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "kill", owner)
}

// KillUnsigned creates a transaction invoking `kill` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) KillUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "kill", nil, owner)
}

// Fund creates a transaction invoking `fund` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Fund(route [][]byte, signer util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "fund", route, signer, amount)
}

// FundTransaction creates a transaction invoking `fund` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FundTransaction(route [][]byte, signer util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "fund", route, signer, amount)
}

// FundUnsigned creates a transaction invoking `fund` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FundUnsigned(route [][]byte, signer util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "fund", nil, route, signer, amount)
}

// Release creates a transaction invoking `release` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Release(signer util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "release", signer, amount)
}

// ReleaseTransaction creates a transaction invoking `release` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ReleaseTransaction(signer util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "release", signer, amount)
}

// ReleaseUnsigned creates a transaction invoking `release` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ReleaseUnsigned(signer util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "release", nil, signer, amount)
}

// SendCross creates a transaction invoking `sendCross` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SendCross(destination [][]byte, to util.Uint160, signer util.Uint160, amount *big.Int, value *big.Int, method string, params []byte, wrapped bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "sendCross", destination, to, signer, amount, value, method, params, wrapped)
}

// SendCrossTransaction creates a transaction invoking `sendCross` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SendCrossTransaction(destination [][]byte, to util.Uint160, signer util.Uint160, amount *big.Int, value *big.Int, method string, params []byte, wrapped bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "sendCross", destination, to, signer, amount, value, method, params, wrapped)
}

// SendCrossUnsigned creates a transaction invoking `sendCross` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SendCrossUnsigned(destination [][]byte, to util.Uint160, signer util.Uint160, amount *big.Int, value *big.Int, method string, params []byte, wrapped bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "sendCross", nil, destination, to, signer, amount, value, method, params, wrapped)
}

// SubmitTopDownCheckpoint creates a transaction invoking `submitTopDownCheckpoint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitTopDownCheckpoint(pub *keys.PublicKey, checkpoint []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitTopDownCheckpoint", pub, checkpoint)
}

// SubmitTopDownCheckpointTransaction creates a transaction invoking `submitTopDownCheckpoint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitTopDownCheckpointTransaction(pub *keys.PublicKey, checkpoint []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitTopDownCheckpoint", pub, checkpoint)
}

// SubmitTopDownCheckpointUnsigned creates a transaction invoking `submitTopDownCheckpoint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitTopDownCheckpointUnsigned(pub *keys.PublicKey, checkpoint []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitTopDownCheckpoint", nil, pub, checkpoint)
}

// SubmitCheckpoint creates a transaction invoking `submitCheckpoint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitCheckpoint(owner util.Uint160, checkpoint []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitCheckpoint", owner, checkpoint)
}

// SubmitCheckpointTransaction creates a transaction invoking `submitCheckpoint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitCheckpointTransaction(owner util.Uint160, checkpoint []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitCheckpoint", owner, checkpoint)
}

// SubmitCheckpointUnsigned creates a transaction invoking `submitCheckpoint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitCheckpointUnsigned(owner util.Uint160, checkpoint []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitCheckpoint", nil, owner, checkpoint)
}

// SetMembership creates a transaction invoking `setMembership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMembership(pubs keys.PublicKeys, weights []*big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMembership", pubs, weights)
}

// SetMembershipTransaction creates a transaction invoking `setMembership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMembershipTransaction(pubs keys.PublicKeys, weights []*big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMembership", pubs, weights)
}

// SetMembershipUnsigned creates a transaction invoking `setMembership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetMembershipUnsigned(pubs keys.PublicKeys, weights []*big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setMembership", nil, pubs, weights)
}

// WhitelistPropagator creates a transaction invoking `whitelistPropagator` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) WhitelistPropagator(owner util.Uint160, id []byte, owners [][]byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "whitelistPropagator", owner, id, owners)
}

// WhitelistPropagatorTransaction creates a transaction invoking `whitelistPropagator` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WhitelistPropagatorTransaction(owner util.Uint160, id []byte, owners [][]byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "whitelistPropagator", owner, id, owners)
}

// WhitelistPropagatorUnsigned creates a transaction invoking `whitelistPropagator` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WhitelistPropagatorUnsigned(owner util.Uint160, id []byte, owners [][]byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "whitelistPropagator", nil, owner, id, owners)
}

// Propagate creates a transaction invoking `propagate` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Propagate(payer util.Uint160, id []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "propagate", payer, id)
}

// PropagateTransaction creates a transaction invoking `propagate` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PropagateTransaction(payer util.Uint160, id []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "propagate", payer, id)
}

// PropagateUnsigned creates a transaction invoking `propagate` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PropagateUnsigned(payer util.Uint160, id []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "propagate", nil, payer, id)
}

// SetConfig creates a transaction invoking `setConfig` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetConfig(key string, val *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setConfig", key, val)
}

// SetConfigTransaction creates a transaction invoking `setConfig` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetConfigTransaction(key string, val *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setConfig", key, val)
}

// SetConfigUnsigned creates a transaction invoking `setConfig` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetConfigUnsigned(key string, val *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setConfig", nil, key, val)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToCommonSubnetID converts stack item into *CommonSubnetID.
func itemToCommonSubnetID(item stackitem.Item, err error) (*CommonSubnetID, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CommonSubnetID)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CommonSubnetID from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CommonSubnetID) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Route, err = bytesArrayFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field Route: %w", err)
	}

	return nil
}

// itemToCommonIPCAddress converts stack item into *CommonIPCAddress.
func itemToCommonIPCAddress(item stackitem.Item, err error) (*CommonIPCAddress, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CommonIPCAddress)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CommonIPCAddress from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CommonIPCAddress) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Subnet, err = itemToCommonSubnetID(arr[0], nil)
	if err != nil {
		return fmt.Errorf("field Subnet: %w", err)
	}

	res.Raw, err = uint160FromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Raw: %w", err)
	}

	return nil
}

// itemToCommonStorableMsg converts stack item into *CommonStorableMsg.
func itemToCommonStorableMsg(item stackitem.Item, err error) (*CommonStorableMsg, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CommonStorableMsg)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CommonStorableMsg from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CommonStorableMsg) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.From, err = itemToCommonIPCAddress(arr[0], nil)
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	res.To, err = itemToCommonIPCAddress(arr[1], nil)
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	res.Value, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	res.Nonce, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Nonce: %w", err)
	}

	b, err := arr[4].TryBytes()
	if err != nil {
		return fmt.Errorf("field Method: %w", err)
	}
	res.Method = string(b)

	res.Params, err = arr[5].TryBytes()
	if err != nil {
		return fmt.Errorf("field Params: %w", err)
	}

	return nil
}

// itemToCommonCrossMsg converts stack item into *CommonCrossMsg.
func itemToCommonCrossMsg(item stackitem.Item, err error) (*CommonCrossMsg, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CommonCrossMsg)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CommonCrossMsg from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CommonCrossMsg) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Msg, err = itemToCommonStorableMsg(arr[0], nil)
	if err != nil {
		return fmt.Errorf("field Msg: %w", err)
	}

	res.Wrapped, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Wrapped: %w", err)
	}

	return nil
}

// itemToGatewayPostboxItem converts stack item into *GatewayPostboxItem.
func itemToGatewayPostboxItem(item stackitem.Item, err error) (*GatewayPostboxItem, error) {
	if err != nil {
		return nil, err
	}
	var res = new(GatewayPostboxItem)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of GatewayPostboxItem from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *GatewayPostboxItem) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.Msg, err = itemToCommonCrossMsg(arr[0], nil)
	if err != nil {
		return fmt.Errorf("field Msg: %w", err)
	}

	res.Owners, err = bytesArrayFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Owners: %w", err)
	}

	return nil
}

func bytesArrayFromItem(item stackitem.Item) ([][]byte, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	res := make([][]byte, len(arr))
	for i := range arr {
		b, err := arr[i].TryBytes()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		res[i] = b
	}
	return res, nil
}

func uint160FromItem(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
