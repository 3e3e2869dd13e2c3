package tests

import (
	"crypto/sha256"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// crossMsg mirrors the message layout used by the contracts, flattened for
// convenient construction in tests.
type crossMsg struct {
	fromRoute [][]byte
	from      util.Uint160
	toRoute   [][]byte
	to        util.Uint160
	value     int64
	nonce     int64
	method    string
	params    []byte
	wrapped   bool
}

func routeItem(route [][]byte) stackitem.Item {
	hops := make([]stackitem.Item, len(route))
	for i := range route {
		hops[i] = stackitem.NewByteArray(route[i])
	}
	return stackitem.NewArray(hops)
}

func subnetItem(route [][]byte) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{routeItem(route)})
}

func addrItem(route [][]byte, raw util.Uint160) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		subnetItem(route),
		stackitem.NewByteArray(raw.BytesBE()),
	})
}

func msgItem(m crossMsg) stackitem.Item {
	params := m.params
	if params == nil {
		params = []byte{}
	}
	storable := stackitem.NewStruct([]stackitem.Item{
		addrItem(m.fromRoute, m.from),
		addrItem(m.toRoute, m.to),
		stackitem.Make(m.value),
		stackitem.Make(m.nonce),
		stackitem.Make(m.method),
		stackitem.NewByteArray(params),
	})
	return stackitem.NewStruct([]stackitem.Item{
		storable,
		stackitem.NewBool(m.wrapped),
	})
}

func serialize(t *testing.T, item stackitem.Item) []byte {
	data, err := stackitem.Serialize(item)
	require.NoError(t, err)
	return data
}

// topDownBlob builds the serialized form of a top-down checkpoint the way
// the gateway expects it on submission.
func topDownBlob(t *testing.T, epoch int64, msgs []crossMsg) []byte {
	items := make([]stackitem.Item, len(msgs))
	for i := range msgs {
		items[i] = msgItem(msgs[i])
	}
	return serialize(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(epoch),
		stackitem.NewArray(items),
	}))
}

// bottomUpBlob builds the serialized form of a child checkpoint. Children
// summaries are left empty, the gateway fills its own on folding.
func bottomUpBlob(t *testing.T, route [][]byte, epoch, fee int64, msgs []crossMsg, prevDigest []byte) []byte {
	items := make([]stackitem.Item, len(msgs))
	for i := range msgs {
		items[i] = msgItem(msgs[i])
	}
	if prevDigest == nil {
		prevDigest = []byte{}
	}
	return serialize(t, stackitem.NewStruct([]stackitem.Item{
		subnetItem(route),
		stackitem.Make(epoch),
		stackitem.Make(fee),
		stackitem.NewArray(items),
		stackitem.NewByteArray(prevDigest),
		stackitem.NewArray([]stackitem.Item{}),
	}))
}

func digestOf(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// subnetDigest computes the structural digest of a subnet route, matching
// the way contracts key subnet records.
func subnetDigest(t *testing.T, route [][]byte) []byte {
	return digestOf(serialize(t, routeItem(route)))
}

// msgID computes the postbox ID of a message.
func msgID(t *testing.T, m crossMsg) []byte {
	return digestOf(serialize(t, msgItem(m)))
}

func childRoute(parent [][]byte, hop []byte) [][]byte {
	route := make([][]byte, 0, len(parent)+1)
	route = append(route, parent...)
	return append(route, hop)
}

func routeArg(route [][]byte) []interface{} {
	arg := make([]interface{}, len(route))
	for i := range route {
		arg[i] = route[i]
	}
	return arg
}
