// Package registry contains RPC wrappers for IPC Subnet Registry contract.
package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
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

// RegistrySubnet is a contract-specific registry.Subnet type used by its methods.
type RegistrySubnet struct {
	Route        [][]byte
	Owner        util.Uint160
	Stake        *big.Int
	Status       *big.Int
	TopDownNonce *big.Int
	CircSupply   *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
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

// CirculatingSupply invokes `circulatingSupply` method of contract.
func (c *ContractReader) CirculatingSupply(digest []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "circulatingSupply", digest))
}

// Get invokes `get` method of contract.
func (c *ContractReader) Get(digest []byte) (*RegistrySubnet, error) {
	return itemToRegistrySubnet(unwrap.Item(c.invoker.Call(c.hash, "get", digest)))
}

// IterateSubnets invokes `iterateSubnets` method of contract.
func (c *ContractReader) IterateSubnets() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateSubnets"))
}

// IterateSubnetsExpanded is similar to IterateSubnets (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateSubnetsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateSubnets", _numOfIteratorItems))
}

// MinCollateral invokes `minCollateral` method of contract.
func (c *ContractReader) MinCollateral() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "minCollateral"))
}

// TopDownMsgsFromNonce invokes `topDownMsgsFromNonce` method of contract.
func (c *ContractReader) TopDownMsgsFromNonce(digest []byte, nonce *big.Int) ([]*CommonCrossMsg, error) {
	return func(item stackitem.Item, err error) ([]*CommonCrossMsg, error) {
		if err != nil {
			return nil, err
		}
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*CommonCrossMsg, len(arr))
		for i := range arr {
			res[i], err = itemToCommonCrossMsg(arr[i], nil)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(unwrap.Item(c.invoker.Call(c.hash, "topDownMsgsFromNonce", digest, nonce)))
}

// TopDownNonce invokes `topDownNonce` method of contract.
func (c *ContractReader) TopDownNonce(digest []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "topDownNonce", digest))
}

// TotalSubnets invokes `totalSubnets` method of contract.
func (c *ContractReader) TotalSubnets() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalSubnets"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
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

	var (
		index = -1
		err   error
	)
	index++
	res.Route, err = bytesArrayFromItem(arr[index])
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

	var (
		index = -1
		err   error
	)
	index++
	res.Subnet, err = itemToCommonSubnetID(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Subnet: %w", err)
	}

	index++
	res.Raw, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
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

	var (
		index = -1
		err   error
	)
	index++
	res.From, err = itemToCommonIPCAddress(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	res.To, err = itemToCommonIPCAddress(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	res.Value, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	index++
	res.Nonce, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Nonce: %w", err)
	}

	index++
	res.Method, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Method: %w", err)
	}

	index++
	res.Params, err = arr[index].TryBytes()
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

	var (
		index = -1
		err   error
	)
	index++
	res.Msg, err = itemToCommonStorableMsg(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Msg: %w", err)
	}

	index++
	res.Wrapped, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Wrapped: %w", err)
	}

	return nil
}

// itemToRegistrySubnet converts stack item into *RegistrySubnet.
func itemToRegistrySubnet(item stackitem.Item, err error) (*RegistrySubnet, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistrySubnet)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistrySubnet from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistrySubnet) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Route, err = bytesArrayFromItem(arr[index])
	if err != nil {
		return fmt.Errorf("field Route: %w", err)
	}

	index++
	res.Owner, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	index++
	res.Stake, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Stake: %w", err)
	}

	index++
	res.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	res.TopDownNonce, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TopDownNonce: %w", err)
	}

	index++
	res.CircSupply, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field CircSupply: %w", err)
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
