package gatewayconst

const (
	// CheckpointPeriodKey is a key in gateway config which contains the
	// epoch lattice period of checkpoints.
	CheckpointPeriodKey = "CheckpointPeriod"
	// MajorityPercentageKey is a key in gateway config which contains the
	// percentage of total validator weight required for consensus.
	MajorityPercentageKey = "MajorityPercentage"
	// CrossMsgFeeKey is a key in gateway config which contains the fee
	// charged for every cross-network message.
	CrossMsgFeeKey = "CrossMsgFee"

	// DefaultCheckpointPeriod is used when deploy data carries no period.
	DefaultCheckpointPeriod = 10
	// DefaultMajorityPercentage is used when deploy data carries no
	// majority percentage.
	DefaultMajorityPercentage = 66
	// DefaultCrossMsgFee is used when deploy data carries no fee.
	DefaultCrossMsgFee = 1000_0000 // 0.1 GAS

	// NotFoundError is returned if a postbox item is missing.
	NotFoundError = "postbox item does not exist"
)
