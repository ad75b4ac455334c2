// Package subset enumerates the non-empty subsets of an ordered sequence.
//
// Enumeration is in ascending bitmask order: mask 1..2^n-1, where element
// j is a member iff bit j of the mask is set. Each subset preserves the
// relative order of the input. The ordering is part of the matching
// contract, not an implementation detail: it determines which grouping is
// tried first when several could settle the same amount.
//
// The enumeration is exponential. Callers keep inputs small (shipments of
// one order, items of one matched group, transactions inside a date
// window) and pre-filter before invoking it.
package subset

// ForEach invokes fn for every non-empty subset of seq in ascending mask
// order. Iteration stops early if fn returns false.
func ForEach[T any](seq []T, fn func(members []T) bool) {
	n := len(seq)
	for mask := 1; mask < 1<<n; mask++ {
		if !fn(pick(seq, mask)) {
			return
		}
	}
}

// ForEachReverse invokes fn for every non-empty subset of seq in
// descending mask order, so the full set comes first and singletons of
// the first element come last. Iteration stops early if fn returns false.
func ForEachReverse[T any](seq []T, fn func(members []T) bool) {
	n := len(seq)
	for mask := 1<<n - 1; mask >= 1; mask-- {
		if !fn(pick(seq, mask)) {
			return
		}
	}
}

// All returns every non-empty subset of seq in ascending mask order.
// For n elements the result holds 2^n - 1 subsets; an empty input yields
// no subsets.
func All[T any](seq []T) [][]T {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([][]T, 0, 1<<n-1)
	ForEach(seq, func(members []T) bool {
		out = append(out, members)
		return true
	})
	return out
}

// pick extracts the members selected by mask, preserving input order.
func pick[T any](seq []T, mask int) []T {
	members := make([]T, 0, len(seq))
	for j := range seq {
		if mask&(1<<j) != 0 {
			members = append(members, seq[j])
		}
	}
	return members
}
