package compute

import "sort"

// Median returns the middle of the sorted samples, averaging the two middle
// values when the count is even. Zero samples yield zero.
func Median(samples []uint64) uint64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]uint64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// ClampUnitPrice bounds a fee estimate to [DefaultUnitPrice, MaxUnitPrice].
// The floor avoids under-pricing into a stuck transaction, the ceiling
// avoids paying for a fee spike sampled off a single hot block.
func ClampUnitPrice(fee uint64) uint64 {
	if fee < DefaultUnitPrice {
		return DefaultUnitPrice
	}
	if fee > MaxUnitPrice {
		return MaxUnitPrice
	}
	return fee
}
