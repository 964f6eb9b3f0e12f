package compute

// ComputeBudget is the resource policy attached to a transaction: how many
// compute units it may burn and what it pays per unit, in micro-lamports.
type ComputeBudget struct {
	UnitLimit uint32
	UnitPrice uint64
}

const (
	// DefaultUnitLimit is the placeholder limit prepended before simulation.
	// It is the per-transaction network maximum, so the simulated message has
	// a realistic byte size without ever under-budgeting the dry run.
	DefaultUnitLimit uint32 = 1_400_000

	// DefaultUnitPrice is both the simulation placeholder price and the
	// fallback when fee estimation is unavailable, micro-lamports per unit.
	DefaultUnitPrice uint64 = 10_000

	// MaxUnitPrice caps estimated fees at ten times the default.
	MaxUnitPrice = DefaultUnitPrice * 10
)

// PriorityLevel selects a tier when the configured fee endpoint supports
// per-level estimates. The plain prioritization-fee sample path ignores it.
type PriorityLevel string

const (
	PriorityMin      PriorityLevel = "Min"
	PriorityLow      PriorityLevel = "Low"
	PriorityMedium   PriorityLevel = "Medium"
	PriorityHigh     PriorityLevel = "High"
	PriorityVeryHigh PriorityLevel = "VeryHigh"
)

// ParsePriorityLevel maps a user-supplied string onto a known tier,
// defaulting to Medium.
func ParsePriorityLevel(s string) PriorityLevel {
	switch PriorityLevel(s) {
	case PriorityMin, PriorityLow, PriorityMedium, PriorityHigh, PriorityVeryHigh:
		return PriorityLevel(s)
	}
	return PriorityMedium
}

// UnitLimitWithMargin returns ceil(consumed * 1.10). The margin absorbs the
// small drift between simulated and final execution (rent changes, timing).
func UnitLimitWithMargin(consumed uint64) uint32 {
	return uint32((consumed*110 + 99) / 100)
}
