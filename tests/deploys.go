package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	registryPath  = "../contracts/registry"
	gatewayPath   = "../contracts/gateway"
	crossrecvPath = "../internal/testcontracts/crossrecv"

	testPeriod        = 10
	testMajority      = 70
	testFee           = 100
	testMinCollateral = 1000
)

// suite groups invokers of a deployed gateway/registry pair.
type suite struct {
	e            *neotest.Executor
	gateway      *neotest.ContractInvoker
	registry     *neotest.ContractInvoker
	gatewayHash  util.Uint160
	registryHash util.Uint160
	route        [][]byte
}

func deploySuiteContracts(t *testing.T, e *neotest.Executor, route [][]byte,
	period, majority, fee int64) (util.Uint160, util.Uint160) {
	gw := neotest.CompileFile(t, e.CommitteeHash, gatewayPath, path.Join(gatewayPath, "config.yml"))
	rg := neotest.CompileFile(t, e.CommitteeHash, registryPath, path.Join(registryPath, "config.yml"))

	e.DeployContract(t, gw, []interface{}{rg.Hash, routeArg(route), period, majority, fee})
	e.DeployContract(t, rg, []interface{}{gw.Hash, routeArg(route), int64(testMinCollateral)})

	return gw.Hash, rg.Hash
}

func newSuite(t *testing.T, route [][]byte, period, majority int64) *suite {
	e := newExecutor(t)
	gwHash, rgHash := deploySuiteContracts(t, e, route, period, majority, testFee)

	return &suite{
		e:            e,
		gateway:      e.CommitteeInvoker(gwHash),
		registry:     e.CommitteeInvoker(rgHash),
		gatewayHash:  gwHash,
		registryHash: rgHash,
		route:        route,
	}
}

// newDefaultSuite deploys the pair serving a depth-one network, so both
// routing directions are reachable.
func newDefaultSuite(t *testing.T) *suite {
	return newSuite(t, [][]byte{randomBytes(20)}, testPeriod, testMajority)
}

// newRootSuite deploys the pair serving the root network.
func newRootSuite(t *testing.T) *suite {
	return newSuite(t, [][]byte{}, testPeriod, testMajority)
}

// deployCrossReceiver deploys the helper contract recording dispatched calls.
func deployCrossReceiver(t *testing.T, s *suite) *neotest.ContractInvoker {
	c := neotest.CompileFile(t, s.e.CommitteeHash, crossrecvPath, path.Join(crossrecvPath, "config.yml"))
	s.e.DeployContract(t, c, nil)
	return s.e.CommitteeInvoker(c.Hash)
}

type validator struct {
	signer neotest.Signer
	pub    []byte
}

// newValidators creates signature accounts, extracts their public keys and
// installs them as the validator set with the given weights.
func newValidators(t *testing.T, s *suite, weights []int64) []validator {
	vs := make([]validator, len(weights))
	pubs := make([]interface{}, len(weights))
	ws := make([]interface{}, len(weights))

	for i := range weights {
		acc := s.gateway.NewAccount(t)
		pub, ok := vm.ParseSignatureContract(acc.Script())
		require.True(t, ok)

		vs[i] = validator{signer: acc, pub: pub}
		pubs[i] = pub
		ws[i] = weights[i]
	}

	s.gateway.Invoke(t, stackitem.Null{}, "setMembership", pubs, ws)
	return vs
}

func submitVote(t *testing.T, s *suite, v validator, blob []byte, expected int64) {
	s.gateway.WithSigners(v.signer).Invoke(t, expected, "submitTopDownCheckpoint", v.pub, blob)
}

// registerSubnet creates an owner account and registers its subnet with the
// given stake. Returns the owner together with the route and record digest
// of the new subnet.
func registerSubnet(t *testing.T, s *suite, stake int64) (neotest.Signer, [][]byte, []byte) {
	owner := s.gateway.NewAccount(t)
	s.gateway.WithSigners(owner).Invoke(t, stackitem.Null{},
		"register", owner.ScriptHash(), stake)

	route := childRoute(s.route, owner.ScriptHash().BytesBE())
	return owner, route, subnetDigest(t, route)
}

// transferGAS moves GAS from the chain validator to the given account. The
// attached data distinguishes a plain deposit from contract-made transfers.
func transferGAS(t *testing.T, s *suite, to util.Uint160, amount int64) {
	gasHash, err := s.e.Chain.GetNativeContractScriptHash(nativenames.Gas)
	require.NoError(t, err)

	inv := s.e.CommitteeInvoker(gasHash).WithSigners(s.e.Validator)
	inv.Invoke(t, true, "transfer", s.e.Validator.ScriptHash(), to, amount, to)
}

func balanceOf(s *suite, h util.Uint160) int64 {
	return s.e.Chain.GetUtilityTokenBalance(h).Int64()
}
