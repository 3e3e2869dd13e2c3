package substate

// Type is an enumeration for subnet record states.
type Type int

// Various subnet record states.
const (
	// Unset stands for subnets that were never registered.
	Unset Type = iota

	// Instantiated stands for subnets whose record exists but that have
	// not received collateral yet.
	Instantiated

	// Active stands for collateralized subnets in full operation.
	Active

	// Inactive stands for subnets whose stake was drained to zero.
	Inactive

	// Terminating stands for subnets in the process of being killed.
	Terminating

	// Killed stands for subnets removed from the registry.
	Killed
)
