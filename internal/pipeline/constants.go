package pipeline

// Line codes identifying the income components in the BEA CAINC4 table.
// These are fixed by the statistical source schema.
const (
	LineCodeWages     = 50
	LineCodeProperty  = 46
	LineCodeTransfers = 47
)

// Component names used as the value column of each extracted series.
const (
	ComponentWages     = "wages"
	ComponentProperty  = "property"
	ComponentTransfers = "transfers"
)

// Default values for a pipeline run. These can be overridden via
// configuration or CLI flags.
const (
	// DefaultYear is the reporting year a run targets when none is given.
	DefaultYear = 2023

	// DefaultThreshold is the minimum-signal noise floor: records whose
	// total income does not exceed it are dropped by the quality filter.
	DefaultThreshold = 1000.0
)

// BEA footnote tokens that appear in value cells instead of a number.
const (
	tokenNotAvailable = "(NA)" // estimate not available
	tokenSuppressed   = "(D)"  // withheld to avoid disclosure
)
