package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/ipc-contract/common"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway"
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
	"github.com/nspcc-dev/ipc-contract/contracts/registry"
	"github.com/stretchr/testify/require"
)

func emptyCheckpoint(t *testing.T, epoch int64) []byte {
	return topDownBlob(t, epoch, nil)
}

func TestCheckpoint_VotingConsensus(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{100, 100, 100})

	// threshold is 300*70/100 = 210
	blob := emptyCheckpoint(t, testPeriod)
	submitVote(t, s, vs[0], blob, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[1], blob, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[2], blob, int64(common.VoteConsensusReached))

	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")

	// the executed epoch is no longer votable
	s.gateway.WithSigners(vs[0].signer).InvokeFail(t, common.ErrEpochNotVotable,
		"submitTopDownCheckpoint", vs[0].pub, blob)
}

func TestCheckpoint_VotingValidation(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{100, 100, 100})

	// off-lattice epoch
	s.gateway.WithSigners(vs[0].signer).InvokeFail(t, common.ErrEpochNotVotable,
		"submitTopDownCheckpoint", vs[0].pub, emptyCheckpoint(t, testPeriod+5))

	// non-member submission
	stranger := s.gateway.NewAccount(t)
	s.gateway.WithSigners(stranger).InvokeFail(t, gateway.ErrNotValidator,
		"submitTopDownCheckpoint", randomBytes(33), emptyCheckpoint(t, testPeriod))

	// double vote within a round
	blob := emptyCheckpoint(t, testPeriod)
	submitVote(t, s, vs[0], blob, int64(common.VoteThresholdNotReached))
	s.gateway.WithSigners(vs[0].signer).InvokeFail(t, common.ErrDoubleVote,
		"submitTopDownCheckpoint", vs[0].pub, blob)
}

func TestCheckpoint_VotingRoundAbort(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{100, 100, 100})

	blobA := emptyCheckpoint(t, testPeriod)
	blobB := topDownBlob(t, testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, value: 0, nonce: 0,
	}})

	// split vote: no digest can reach 210 anymore
	submitVote(t, s, vs[0], blobA, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[1], blobB, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[2], blobA, int64(common.VoteRoundAbort))

	s.gateway.Invoke(t, 0, "lastExecutedEpoch")

	// the next round starts clean for the same epoch
	submitVote(t, s, vs[0], blobA, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[1], blobA, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[2], blobA, int64(common.VoteConsensusReached))

	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")
}

func TestCheckpoint_VotingReachingConsensus(t *testing.T) {
	s := newSuite(t, [][]byte{randomBytes(20)}, testPeriod, 60)
	vs := newValidators(t, s, []int64{100, 100, 100, 100})

	// threshold is 400*60/100 = 240
	blobA := emptyCheckpoint(t, testPeriod)
	blobB := topDownBlob(t, testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, value: 0, nonce: 0,
	}})

	submitVote(t, s, vs[0], blobA, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[1], blobB, int64(common.VoteThresholdNotReached))
	submitVote(t, s, vs[2], blobA, int64(common.VoteReachingConsensus))
	submitVote(t, s, vs[3], blobA, int64(common.VoteConsensusReached))

	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")
}

func TestCheckpoint_ExecutableQueue(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{1})

	acc := s.gateway.NewAccount(t).ScriptHash()
	cp10 := topDownBlob(t, testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, to: acc, nonce: 0,
	}})
	cp20 := topDownBlob(t, 2*testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, to: acc, nonce: 1,
	}})

	// consensus out of order: epoch 20 has to wait for epoch 10
	submitVote(t, s, vs[0], cp20, int64(common.VoteConsensusReached))
	s.gateway.Invoke(t, 0, "lastExecutedEpoch")
	s.gateway.Invoke(t, 0, "appliedTopDownNonce")
	s.gateway.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(2 * testPeriod),
	}), "executableQueue")

	// epoch 10 executes and pulls epoch 20 along
	submitVote(t, s, vs[0], cp10, int64(common.VoteConsensusReached))
	s.gateway.Invoke(t, 2*testPeriod, "lastExecutedEpoch")
	s.gateway.Invoke(t, 2, "appliedTopDownNonce")
	s.gateway.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "executableQueue")
}

func TestCheckpoint_QueuedEpochImmutable(t *testing.T) {
	s := newSuite(t, [][]byte{randomBytes(20)}, testPeriod, 60)
	vs := newValidators(t, s, []int64{300, 100})

	transferGAS(t, s, s.gatewayHash, 1000)
	accA := s.gateway.NewAccount(t).ScriptHash()
	accB := s.gateway.NewAccount(t).ScriptHash()

	// threshold is 400*60/100 = 240, the heavy validator decides alone
	won := topDownBlob(t, 2*testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, to: accA, value: 300, nonce: 0,
	}})
	lost := topDownBlob(t, 2*testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, to: accB, value: 300, nonce: 0,
	}})

	submitVote(t, s, vs[0], won, int64(common.VoteConsensusReached))

	// the finalized epoch accepts no competing submissions
	s.gateway.WithSigners(vs[1].signer).InvokeFail(t, gateway.ErrEpochFinalized,
		"submitTopDownCheckpoint", vs[1].pub, lost)

	beforeA := balanceOf(s, accA)
	beforeB := balanceOf(s, accB)

	// the gap epoch executes and drains the checkpoint that won the vote
	submitVote(t, s, vs[0], emptyCheckpoint(t, testPeriod), int64(common.VoteConsensusReached))
	s.gateway.Invoke(t, 2*testPeriod, "lastExecutedEpoch")
	require.EqualValues(t, beforeA+300, balanceOf(s, accA))
	require.EqualValues(t, beforeB, balanceOf(s, accB))
}

func TestCheckpoint_NonceGapAborts(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{1})

	acc := s.gateway.NewAccount(t).ScriptHash()
	gapped := topDownBlob(t, testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, to: acc, nonce: 5,
	}})

	s.gateway.WithSigners(vs[0].signer).InvokeFail(t, gateway.ErrNonceGap,
		"submitTopDownCheckpoint", vs[0].pub, gapped)

	// the abort left no trace, a correct checkpoint still goes through
	s.gateway.Invoke(t, 0, "lastExecutedEpoch")
	good := topDownBlob(t, testPeriod, []crossMsg{{
		fromRoute: s.route, toRoute: s.route, to: acc, nonce: 0,
	}})
	submitVote(t, s, vs[0], good, int64(common.VoteConsensusReached))
	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")
}

func TestCheckpoint_DispatchAndPostbox(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{1})

	_, route, digest := registerSubnet(t, s, testMinCollateral)

	transferGAS(t, s, s.gatewayHash, 1000)

	recipient := s.gateway.NewAccount(t).ScriptHash()
	funder := s.gateway.NewAccount(t)
	grandchild := childRoute(route, randomBytes(20))

	local := crossMsg{
		fromRoute: s.route, from: funder.ScriptHash(),
		toRoute: s.route, to: recipient,
		value: 300, nonce: 0,
	}
	transit := crossMsg{
		fromRoute: s.route, from: funder.ScriptHash(),
		toRoute: grandchild, to: recipient,
		value: 0, nonce: 1,
	}
	failing := crossMsg{
		fromRoute: s.route, from: funder.ScriptHash(),
		toRoute: s.route, to: recipient,
		value: 0, nonce: 2, method: "noSuchMethod",
	}

	before := balanceOf(s, recipient)
	blob := topDownBlob(t, testPeriod, []crossMsg{local, transit, failing})
	submitVote(t, s, vs[0], blob, int64(common.VoteConsensusReached))

	// the failing call did not block finality or the value delivery
	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")
	require.EqualValues(t, before+300, balanceOf(s, recipient))

	// transit message waits in the postbox under its digest
	id := msgID(t, transit)
	_, err := s.gateway.TestInvoke(t, "getPostboxItem", id)
	require.NoError(t, err)

	other := s.gateway.NewAccount(t)
	s.gateway.WithSigners(other).InvokeFail(t, gateway.ErrNotPropagator,
		"propagate", other.ScriptHash(), id)

	s.gateway.WithSigners(funder).Invoke(t, stackitem.Null{},
		"whitelistPropagator", funder.ScriptHash(), id,
		[]interface{}{other.ScriptHash().BytesBE()})

	// propagation pays the fee and pushes the message down to the child
	nonceBefore := topDownNonce(t, s, digest)
	s.gateway.WithSigners(other).Invoke(t, stackitem.Null{},
		"propagate", other.ScriptHash(), id)

	require.Equal(t, nonceBefore+1, topDownNonce(t, s, digest))
	s.gateway.InvokeFail(t, gatewayconst.NotFoundError, "getPostboxItem", id)
}

func TestCheckpoint_DispatchMethodCall(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{1})
	recv := deployCrossReceiver(t, s)

	payload := []byte("ping")
	call := crossMsg{
		fromRoute: s.route, from: s.gateway.NewAccount(t).ScriptHash(),
		toRoute: s.route, to: recv.Hash,
		nonce: 0, method: "store", params: payload,
	}
	blob := topDownBlob(t, testPeriod, []crossMsg{call})
	submitVote(t, s, vs[0], blob, int64(common.VoteConsensusReached))

	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")

	stack, err := recv.TestInvoke(t, "lastParams")
	require.NoError(t, err)
	got, err := stack.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestCheckpoint_DispatchReentrancy(t *testing.T) {
	s := newDefaultSuite(t)
	vs := newValidators(t, s, []int64{1})
	recv := deployCrossReceiver(t, s)

	reenter := crossMsg{
		fromRoute: s.route, from: s.gateway.NewAccount(t).ScriptHash(),
		toRoute: s.route, to: recv.Hash,
		nonce: 0, method: "reenter", params: s.gatewayHash.BytesBE(),
	}
	blob := topDownBlob(t, testPeriod, []crossMsg{reenter})

	h := s.gateway.WithSigners(vs[0].signer).Invoke(t,
		int64(common.VoteConsensusReached), "submitTopDownCheckpoint", vs[0].pub, blob)

	// the callback was rejected without blocking finality
	s.gateway.Invoke(t, testPeriod, "lastExecutedEpoch")
	s.e.CheckTxNotificationEvent(t, h, 1, state.NotificationEvent{
		ScriptHash: s.gatewayHash,
		Name:       "DispatchFailed",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(recv.Hash.BytesBE()),
			stackitem.Make(0),
		}),
	})
}

func topDownNonce(t *testing.T, s *suite, digest []byte) int64 {
	stack, err := s.registry.TestInvoke(t, "topDownNonce", digest)
	require.NoError(t, err)
	return stack.Pop().Item().Value().(*big.Int).Int64()
}

func TestCheckpoint_BottomUpSubmission(t *testing.T) {
	s := newSuite(t, [][]byte{randomBytes(20)}, 100, testMajority)

	owner, route, digest := registerSubnet(t, s, testMinCollateral)

	funder := s.gateway.NewAccount(t)
	s.gateway.WithSigners(funder).Invoke(t, stackitem.Null{}, "fund",
		routeArg(route), funder.ScriptHash(), int64(testFee+500))
	s.registry.Invoke(t, 500, "circulatingSupply", digest)

	// value cannot leave while the child still holds it
	s.gateway.WithSigners(owner).InvokeFail(t, registry.ErrNonZeroCircSupply,
		"kill", owner.ScriptHash())

	back := crossMsg{
		fromRoute: route, from: funder.ScriptHash(),
		toRoute: s.route, to: funder.ScriptHash(),
		value: 500, nonce: 0,
	}
	blob := bottomUpBlob(t, route, 100, 7, []crossMsg{back}, nil)

	stranger := s.gateway.NewAccount(t)
	s.gateway.WithSigners(stranger).InvokeFail(t, gateway.ErrNotSubnetOwner,
		"submitCheckpoint", stranger.ScriptHash(), blob)

	badEpoch := bottomUpBlob(t, route, 150, 7, []crossMsg{back}, nil)
	s.gateway.WithSigners(owner).InvokeFail(t, gateway.ErrEpochMismatch,
		"submitCheckpoint", owner.ScriptHash(), badEpoch)

	badSource := bottomUpBlob(t, s.route, 100, 7, []crossMsg{back}, nil)
	s.gateway.WithSigners(owner).InvokeFail(t, gateway.ErrNotChild,
		"submitCheckpoint", owner.ScriptHash(), badSource)

	overdrawn := bottomUpBlob(t, route, 100, 7, []crossMsg{{
		fromRoute: route, from: funder.ScriptHash(),
		toRoute: s.route, to: funder.ScriptHash(),
		value: 600, nonce: 0,
	}}, nil)
	s.gateway.WithSigners(owner).InvokeFail(t, registry.ErrSupplyExceeded,
		"submitCheckpoint", owner.ScriptHash(), overdrawn)

	s.gateway.WithSigners(owner).Invoke(t, stackitem.Null{},
		"submitCheckpoint", owner.ScriptHash(), blob)

	s.registry.Invoke(t, 0, "circulatingSupply", digest)
	s.gateway.Invoke(t, 1, "bottomUpNonce")

	// folded into the current window under a fresh global nonce
	stack, err := s.gateway.TestInvoke(t, "bottomUpCheckpoint", 100)
	require.NoError(t, err)
	winBlob, err := stack.Pop().Item().TryBytes()
	require.NoError(t, err)
	win, err := stackitem.Deserialize(winBlob)
	require.NoError(t, err)
	fields := win.Value().([]stackitem.Item)
	require.EqualValues(t, 7, fields[2].Value().(*big.Int).Int64())
	require.Len(t, fields[3].Value().([]stackitem.Item), 1)
	require.Len(t, fields[5].Value().([]stackitem.Item), 1)

	// the next submission must chain to the previous one
	unchained := bottomUpBlob(t, route, 200, 0, nil, nil)
	s.gateway.WithSigners(owner).InvokeFail(t, gateway.ErrBrokenChain,
		"submitCheckpoint", owner.ScriptHash(), unchained)

	chained := bottomUpBlob(t, route, 200, 0, nil, digestOf(blob))
	s.gateway.WithSigners(owner).Invoke(t, stackitem.Null{},
		"submitCheckpoint", owner.ScriptHash(), chained)

	// with the supply returned, the subnet can be killed
	s.gateway.WithSigners(owner).Invoke(t, stackitem.Null{}, "kill", owner.ScriptHash())
	s.registry.InvokeFail(t, registry.ErrNotRegistered, "get", digest)
}
