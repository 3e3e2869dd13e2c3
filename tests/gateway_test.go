package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
	"github.com/nspcc-dev/ipc-contract/contracts/registry"
	"github.com/stretchr/testify/require"
)

func TestGateway_Version(t *testing.T) {
	s := newDefaultSuite(t)
	s.gateway.Invoke(t, common.Version, "version")
}

func TestGateway_CurrentNetwork(t *testing.T) {
	s := newDefaultSuite(t)
	s.gateway.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(s.route[0]),
	}), "currentNetwork")
}

func TestGateway_Fund(t *testing.T) {
	s := newRootSuite(t)

	_, route, digest := registerSubnet(t, s, testMinCollateral)
	funder := s.gateway.NewAccount(t)
	inv := s.gateway.WithSigners(funder)

	inv.InvokeFail(t, gateway.ErrFeeNotCovered, "fund",
		routeArg(route), funder.ScriptHash(), int64(testFee))

	inv.Invoke(t, stackitem.Null{}, "fund",
		routeArg(route), funder.ScriptHash(), int64(testFee+500))

	s.registry.Invoke(t, 1, "topDownNonce", digest)
	s.registry.Invoke(t, 500, "circulatingSupply", digest)

	// the message waits in the child's outbound buffer
	stack, err := s.registry.TestInvoke(t, "topDownMsgsFromNonce", digest, 0)
	require.NoError(t, err)
	msgs := stack.Pop().Item().Value().([]stackitem.Item)
	require.Len(t, msgs, 1)

	// funding an unregistered subnet has nowhere to put the message
	other := childRoute(s.route, randomBytes(20))
	inv.InvokeFail(t, registry.ErrNotRegistered, "fund",
		routeArg(other), funder.ScriptHash(), int64(testFee+500))
}

func TestGateway_Release(t *testing.T) {
	s := newSuite(t, [][]byte{randomBytes(20)}, 100, testMajority)

	acc := s.gateway.NewAccount(t)
	inv := s.gateway.WithSigners(acc)

	inv.InvokeFail(t, gateway.ErrFeeNotCovered, "release", acc.ScriptHash(), int64(testFee))
	inv.Invoke(t, stackitem.Null{}, "release", acc.ScriptHash(), int64(testFee+200))

	s.gateway.Invoke(t, 1, "bottomUpNonce")

	stack, err := s.gateway.TestInvoke(t, "bottomUpCheckpoint", 100)
	require.NoError(t, err)
	blob, err := stack.Pop().Item().TryBytes()
	require.NoError(t, err)

	cp, err := stackitem.Deserialize(blob)
	require.NoError(t, err)
	fields := cp.Value().([]stackitem.Item)
	require.Len(t, fields[3].Value().([]stackitem.Item), 1) // messages
	require.EqualValues(t, testFee, fields[2].Value().(*big.Int).Int64())

	// the root network has no parent to release to
	rs := newRootSuite(t)
	racc := rs.gateway.NewAccount(t)
	rs.gateway.WithSigners(racc).InvokeFail(t, gateway.ErrUnroutable,
		"release", racc.ScriptHash(), int64(testFee+200))
}

func TestGateway_SendCross(t *testing.T) {
	s := newDefaultSuite(t)

	_, route, digest := registerSubnet(t, s, testMinCollateral)
	acc := s.gateway.NewAccount(t)
	to := s.gateway.NewAccount(t).ScriptHash()
	inv := s.gateway.WithSigners(acc)

	inv.InvokeFail(t, gateway.ErrSameNetwork, "sendCross",
		routeArg(s.route), to, acc.ScriptHash(),
		int64(testFee+100), int64(100), "", []byte{}, false)

	inv.InvokeFail(t, gateway.ErrValueMismatch, "sendCross",
		routeArg(route), to, acc.ScriptHash(),
		int64(testFee+99), int64(100), "", []byte{}, false)

	// descendant target goes down through the registry
	inv.Invoke(t, stackitem.Null{}, "sendCross",
		routeArg(route), to, acc.ScriptHash(),
		int64(testFee+100), int64(100), "", []byte{}, false)
	s.registry.Invoke(t, 1, "topDownNonce", digest)

	// a sibling network is served by the parent
	sibling := [][]byte{randomBytes(20)}
	inv.Invoke(t, stackitem.Null{}, "sendCross",
		routeArg(sibling), to, acc.ScriptHash(),
		int64(testFee+100), int64(100), "", []byte{}, false)
	s.gateway.Invoke(t, 1, "bottomUpNonce")
}

func TestGateway_Membership(t *testing.T) {
	s := newDefaultSuite(t)

	acc := s.gateway.NewAccount(t)
	s.gateway.WithSigners(acc).InvokeFail(t, common.ErrAlphabetWitnessFailed,
		"setMembership", []interface{}{}, []interface{}{})

	vs := newValidators(t, s, []int64{100, 200})
	s.gateway.Invoke(t, 300, "totalValidatorWeight")
	s.gateway.Invoke(t, 100, "validatorWeight", vs[0].pub)
	s.gateway.Invoke(t, 200, "validatorWeight", vs[1].pub)

	s.gateway.InvokeFail(t, gateway.ErrMembershipMismatch, "setMembership",
		[]interface{}{vs[0].pub}, []interface{}{})
	s.gateway.InvokeFail(t, gateway.ErrZeroWeight, "setMembership",
		[]interface{}{vs[0].pub}, []interface{}{int64(0)})

	// replacement drops the old set entirely
	s.gateway.Invoke(t, stackitem.Null{}, "setMembership",
		[]interface{}{vs[1].pub}, []interface{}{int64(50)})
	s.gateway.Invoke(t, 50, "totalValidatorWeight")
	s.gateway.Invoke(t, 0, "validatorWeight", vs[0].pub)
}

func TestGateway_Config(t *testing.T) {
	s := newDefaultSuite(t)

	s.gateway.Invoke(t, testFee, "crossMsgFee")
	s.gateway.Invoke(t, testPeriod, "checkpointPeriod")
	s.gateway.Invoke(t, testMajority, "majorityPercentage")

	acc := s.gateway.NewAccount(t)
	s.gateway.WithSigners(acc).InvokeFail(t, common.ErrAlphabetWitnessFailed,
		"setConfig", gatewayconst.CrossMsgFeeKey, int64(500))

	s.gateway.Invoke(t, stackitem.Null{}, "setConfig", gatewayconst.CrossMsgFeeKey, int64(500))
	s.gateway.Invoke(t, 500, "crossMsgFee")
}
