package deploy

import (
	"github.com/nspcc-dev/ipc-contract/contracts/gateway/gatewayconst"
)

// RawNetworkParameter is an IPC network parameter which is stored in the
// Gateway contract configuration but not interpreted by it.
type RawNetworkParameter struct {
	// Name of the parameter.
	Name string

	// Raw parameter value.
	Value int64
}

// NetworkConfiguration represents IPC network configuration stored in the
// Gateway contract.
type NetworkConfiguration struct {
	CheckpointPeriod   int64
	MajorityPercentage int64
	CrossMsgFee        int64
	Raw                []RawNetworkParameter
}

// fillDefaults replaces zero values with the contract defaults so that the
// deployment data never carries zeroes the contract would reject.
func (x *NetworkConfiguration) fillDefaults() {
	if x.CheckpointPeriod == 0 {
		x.CheckpointPeriod = gatewayconst.DefaultCheckpointPeriod
	}
	if x.MajorityPercentage == 0 {
		x.MajorityPercentage = gatewayconst.DefaultMajorityPercentage
	}
	if x.CrossMsgFee == 0 {
		x.CrossMsgFee = gatewayconst.DefaultCrossMsgFee
	}
}
