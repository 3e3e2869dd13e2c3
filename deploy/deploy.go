// Package deploy provides IPC contract suite deployment routine.
package deploy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for IPC contract suite deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// RegistryContractPrm groups deployment parameters of the Subnet Registry
// contract.
type RegistryContractPrm struct {
	Common CommonDeployPrm

	// Minimum collateral accepted by the register operation, in GAS fractions.
	MinCollateral int64
}

// GatewayContractPrm groups deployment parameters of the Gateway contract.
type GatewayContractPrm struct {
	Common CommonDeployPrm
	Config NetworkConfiguration
}

// Prm groups all parameters of the IPC contract suite deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance hosting the deployed subnet.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	// Route of the subnet served by the deployed Gateway, from the root down.
	// Empty route means the root network.
	NetworkRoute [][]byte

	RegistryContract RegistryContractPrm
	GatewayContract  GatewayContractPrm
}

// Addresses groups on-chain addresses of the deployed IPC contract suite.
type Addresses struct {
	Gateway  util.Uint160
	Registry util.Uint160
}

// Deploy initializes the IPC contract suite on the Neo network represented by
// given Prm.Blockchain and makes it ready for subnet operation.
//
// The Gateway and the Registry reference each other, so both addresses are
// calculated from the deployer account and the compiled artifacts before
// anything is sent, and each contract receives its counterpart address with
// the deployment data. Contracts already present on the chain are left
// untouched, which makes Deploy safe to re-run.
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	var res Addresses

	prm.GatewayContract.Config.fillDefaults()

	localActor, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: prm.LocalAccount.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.LocalAccount,
	}}, actor.Options{
		CheckerModifier: deployTransactionModifier(func() uint32 {
			h, err := prm.Blockchain.GetBlockCount()
			if err != nil {
				return 0
			}
			return h
		}),
	})
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	sender := prm.LocalAccount.ScriptHash()
	res.Registry = state.CreateContractHash(sender,
		prm.RegistryContract.Common.NEF.Checksum, prm.RegistryContract.Common.Manifest.Name)
	res.Gateway = state.CreateContractHash(sender,
		prm.GatewayContract.Common.NEF.Checksum, prm.GatewayContract.Common.Manifest.Name)

	route := make([]any, len(prm.NetworkRoute))
	for i := range prm.NetworkRoute {
		route[i] = prm.NetworkRoute[i]
	}

	prm.Logger.Info("synchronizing Subnet Registry contract with the chain...",
		zap.Stringer("address", res.Registry))

	err = syncContract(ctx, prm, localActor, res.Registry, prm.RegistryContract.Common,
		[]any{res.Gateway, route, prm.RegistryContract.MinCollateral})
	if err != nil {
		return res, fmt.Errorf("sync Subnet Registry contract with the chain: %w", err)
	}

	prm.Logger.Info("Subnet Registry contract successfully synchronized")

	prm.Logger.Info("synchronizing Gateway contract with the chain...",
		zap.Stringer("address", res.Gateway))

	err = syncContract(ctx, prm, localActor, res.Gateway, prm.GatewayContract.Common,
		[]any{res.Registry, route,
			prm.GatewayContract.Config.CheckpointPeriod,
			prm.GatewayContract.Config.MajorityPercentage,
			prm.GatewayContract.Config.CrossMsgFee,
		})
	if err != nil {
		return res, fmt.Errorf("sync Gateway contract with the chain: %w", err)
	}

	prm.Logger.Info("Gateway contract successfully synchronized")

	for _, p := range prm.GatewayContract.Config.Raw {
		prm.Logger.Info("setting extra Gateway configuration parameter...",
			zap.String("name", p.Name), zap.Int64("value", p.Value))

		txHash, vub, err := localActor.SendCall(res.Gateway, "setConfig", p.Name, p.Value)
		if err != nil {
			return res, fmt.Errorf("send transaction setting Gateway config parameter %q: %w", p.Name, err)
		}

		err = waitHalt(localActor, txHash, vub)
		if err != nil {
			return res, fmt.Errorf("set Gateway config parameter %q: %w", p.Name, err)
		}
	}

	return res, nil
}

// syncContract deploys the contract with the given parameters unless it is
// already on the chain at the precalculated address.
func syncContract(ctx context.Context, prm Prm, localActor *actor.Actor, addr util.Uint160, common CommonDeployPrm, data []any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("wait for contract synchronization: %w", err)
	}

	alreadyOnChain, err := isDeployed(prm.Blockchain, addr)
	if err != nil {
		return fmt.Errorf("check presence of the contract on the chain: %w", err)
	}

	if alreadyOnChain {
		prm.Logger.Info("contract is already on the chain, skip deployment",
			zap.Stringer("address", addr))
		return nil
	}

	txHash, vub, err := management.New(localActor).Deploy(&common.NEF, &common.Manifest, data)
	if err != nil {
		return fmt.Errorf("send deployment transaction: %w", err)
	}

	prm.Logger.Info("deployment transaction sent, waiting for persistence...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	err = waitHalt(localActor, txHash, vub)
	if err != nil {
		return fmt.Errorf("deployment transaction: %w", err)
	}

	return nil
}

func isDeployed(b Blockchain, addr util.Uint160) (bool, error) {
	st, err := b.GetContractStateByHash(addr)
	if err != nil {
		if strings.Contains(err.Error(), "Unknown contract") {
			return false, nil
		}
		return false, err
	}
	return st != nil, nil
}

func waitHalt(localActor *actor.Actor, txHash util.Uint256, vub uint32) error {
	res, err := localActor.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for transaction persistence: %w", err)
	}
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction failed with %s state: %s", res.VMState, res.FaultException)
	}
	return nil
}

// returns actor.TransactionCheckerModifier which checks that invocation
// finished with 'HALT' state and, if so, sets transaction's nonce and
// ValidUntilBlock to 100*N and 100*(N+1) correspondingly, where
// 100*N <= current height < 100*(N+1). This way concurrent deployers
// compose identical transactions.
func deployTransactionModifier(getBlockchainHeight func() uint32) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight := getBlockchainHeight()
		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}
