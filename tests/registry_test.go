package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/registry"
	"github.com/nspcc-dev/ipc-contract/contracts/registry/substate"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Version(t *testing.T) {
	s := newDefaultSuite(t)
	s.registry.Invoke(t, common.Version, "version")
}

func TestRegistry_GatewayOnly(t *testing.T) {
	s := newDefaultSuite(t)
	acc := s.registry.NewAccount(t)
	inv := s.registry.WithSigners(acc)

	inv.InvokeFail(t, registry.ErrNotGateway, "register", acc.ScriptHash(), int64(testMinCollateral))
	inv.InvokeFail(t, registry.ErrNotGateway, "addStake", acc.ScriptHash(), int64(100))
	inv.InvokeFail(t, registry.ErrNotGateway, "releaseStake", acc.ScriptHash(), int64(100))
	inv.InvokeFail(t, registry.ErrNotGateway, "kill", acc.ScriptHash())
	inv.InvokeFail(t, registry.ErrNotGateway, "releaseCircSupply", randomBytes(32), int64(1))
}

func getRecord(t *testing.T, s *suite, digest []byte) []stackitem.Item {
	stack, err := s.registry.TestInvoke(t, "get", digest)
	require.NoError(t, err)
	return stack.Pop().Item().Value().([]stackitem.Item)
}

func recordStake(t *testing.T, s *suite, digest []byte) int64 {
	return getRecord(t, s, digest)[2].Value().(*big.Int).Int64()
}

func recordStatus(t *testing.T, s *suite, digest []byte) int64 {
	return getRecord(t, s, digest)[3].Value().(*big.Int).Int64()
}

func TestRegistry_StakeLifecycle(t *testing.T) {
	s := newDefaultSuite(t)

	owner := s.gateway.NewAccount(t)
	inv := s.gateway.WithSigners(owner)

	inv.InvokeFail(t, registry.ErrInsufficientCollateral, "register",
		owner.ScriptHash(), int64(testMinCollateral-1))

	inv.Invoke(t, stackitem.Null{}, "register", owner.ScriptHash(), int64(testMinCollateral))
	require.EqualValues(t, testMinCollateral, balanceOf(s, s.gatewayHash))

	route := childRoute(s.route, owner.ScriptHash().BytesBE())
	digest := subnetDigest(t, route)

	require.EqualValues(t, testMinCollateral, recordStake(t, s, digest))
	require.EqualValues(t, substate.Active, recordStatus(t, s, digest))
	s.registry.Invoke(t, 1, "totalSubnets")

	inv.InvokeFail(t, registry.ErrAlreadyRegistered, "register",
		owner.ScriptHash(), int64(testMinCollateral))

	stranger := s.gateway.NewAccount(t)
	s.gateway.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"addStake", owner.ScriptHash(), int64(500))

	inv.Invoke(t, stackitem.Null{}, "addStake", owner.ScriptHash(), int64(500))
	require.EqualValues(t, testMinCollateral+500, recordStake(t, s, digest))

	inv.InvokeFail(t, registry.ErrStakeExceeded, "releaseStake",
		owner.ScriptHash(), int64(testMinCollateral+501))
	inv.InvokeFail(t, registry.ErrZeroAmount, "releaseStake", owner.ScriptHash(), int64(0))

	inv.Invoke(t, stackitem.Null{}, "releaseStake", owner.ScriptHash(), int64(testMinCollateral+500))
	require.EqualValues(t, 0, recordStake(t, s, digest))
	require.EqualValues(t, substate.Inactive, recordStatus(t, s, digest))
	require.EqualValues(t, 0, balanceOf(s, s.gatewayHash))

	// topping up a drained subnet reactivates it
	inv.Invoke(t, stackitem.Null{}, "addStake", owner.ScriptHash(), int64(200))
	require.EqualValues(t, substate.Active, recordStatus(t, s, digest))

	inv.Invoke(t, stackitem.Null{}, "kill", owner.ScriptHash())
	require.EqualValues(t, 0, balanceOf(s, s.gatewayHash))
	s.registry.InvokeFail(t, registry.ErrNotRegistered, "get", digest)
	s.registry.Invoke(t, 0, "totalSubnets")
}

func TestRegistry_MinCollateral(t *testing.T) {
	s := newDefaultSuite(t)
	s.registry.Invoke(t, testMinCollateral, "minCollateral")
}
