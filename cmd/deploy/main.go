// Deploy command initializes the IPC contract suite on a Neo network.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nspcc-dev/ipc-contract/contracts"
	"github.com/nspcc-dev/ipc-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	walletPath := flag.String("wallet", "", "Path to the deployer NEP-6 wallet")
	walletPassword := flag.String("password", "", "Password of the deployer wallet account")
	contractsDir := flag.String("contracts", "build", "Directory with the compiled contracts")
	routeArg := flag.String("route", "", "Subnet route as comma-separated hex-encoded segments, empty for the root network")
	minCollateral := flag.Int64("min-collateral", 0, "Minimum subnet collateral in GAS fractions")
	checkpointPeriod := flag.Int64("checkpoint-period", 0, "Checkpoint period in epochs, 0 for the default")
	majorityPercentage := flag.Int64("majority", 0, "Voting majority percentage, 0 for the default")
	crossMsgFee := flag.Int64("fee", 0, "Cross-network message fee in GAS fractions, 0 for the default")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *walletPath == "":
		log.Fatal("missing deployer wallet")
	case *minCollateral <= 0:
		log.Fatal("missing minimum subnet collateral")
	}

	route, err := parseRoute(*routeArg)
	if err != nil {
		log.Fatal(fmt.Errorf("parse subnet route: %w", err))
	}

	err = run(*neoRPCEndpoint, *walletPath, *walletPassword, *contractsDir, route, deploy.NetworkConfiguration{
		CheckpointPeriod:   *checkpointPeriod,
		MajorityPercentage: *majorityPercentage,
		CrossMsgFee:        *crossMsgFee,
	}, *minCollateral)
	if err != nil {
		log.Fatal(err)
	}
}

func run(neoRPCEndpoint, walletPath, walletPassword, contractsDir string, route [][]byte, cfg deploy.NetworkConfiguration, minCollateral int64) error {
	suite, err := contracts.Read(os.DirFS(contractsDir))
	if err != nil {
		return fmt.Errorf("read compiled contracts from '%s': %w", contractsDir, err)
	}

	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return fmt.Errorf("open deployer wallet: %w", err)
	}

	acc := w.Accounts[0]

	err = acc.Decrypt(walletPassword, w.Scrypt)
	if err != nil {
		return fmt.Errorf("unlock deployer account: %w", err)
	}

	c, err := rpcclient.New(context.Background(), neoRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("RPC client dial: %w", err)
	}

	defer c.Close()

	l, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	defer func() { _ = l.Sync() }()

	addrs, err := deploy.Deploy(context.Background(), deploy.Prm{
		Logger:       l,
		Blockchain:   c,
		LocalAccount: acc,
		NetworkRoute: route,
		RegistryContract: deploy.RegistryContractPrm{
			Common:        deploy.CommonDeployPrm{NEF: suite.Registry.NEF, Manifest: suite.Registry.Manifest},
			MinCollateral: minCollateral,
		},
		GatewayContract: deploy.GatewayContractPrm{
			Common: deploy.CommonDeployPrm{NEF: suite.Gateway.NEF, Manifest: suite.Gateway.Manifest},
			Config: cfg,
		},
	})
	if err != nil {
		return err
	}

	l.Info("IPC contract suite is ready",
		zap.Stringer("gateway", addrs.Gateway),
		zap.Stringer("registry", addrs.Registry))

	return nil
}

func parseRoute(s string) ([][]byte, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	route := make([][]byte, len(parts))

	for i := range parts {
		b, err := hex.DecodeString(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, fmt.Errorf("segment #%d: %w", i, err)
		}

		route[i] = b
	}

	return route, nil
}
