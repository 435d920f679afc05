package glstring

import "slices"

// minMerge is the length below which parts are ordered by run detection and
// binary insertion alone. GL String levels are practically always shorter.
const minMerge = 64

// sortParts stable-sorts parts with Compare.
//
// Compare ties a token without allele with every token of its locus, so it
// is not transitive and the result of a mixed list depends on the algorithm.
// Short lists are ordered the way a run-detecting binary insertion sort
// orders them: the leading run is extended (and reversed when strictly
// descending), then every following part is inserted after all parts that
// do not compare greater.
func sortParts(parts []string) {
	if len(parts) >= minMerge {
		slices.SortStableFunc(parts, Compare)
		return
	}
	binaryInsertionSort(parts, leadingRun(parts))
}

// leadingRun returns the length of the ascending run at the start of parts.
// A strictly descending run is reversed in place first.
func leadingRun(parts []string) int {
	n := len(parts)
	if n < 2 {
		return n
	}

	run := 2
	if Compare(parts[1], parts[0]) < 0 {
		for run < n && Compare(parts[run], parts[run-1]) < 0 {
			run++
		}
		slices.Reverse(parts[:run])
		return run
	}

	for run < n && Compare(parts[run], parts[run-1]) >= 0 {
		run++
	}
	return run
}

// binaryInsertionSort inserts parts[sorted:] one by one into the sorted
// prefix parts[:sorted].
func binaryInsertionSort(parts []string, sorted int) {
	for i := sorted; i < len(parts); i++ {
		pivot := parts[i]

		lo, hi := 0, i
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if Compare(pivot, parts[mid]) < 0 {
				hi = mid
			} else {
				lo = mid + 1
			}
		}

		copy(parts[lo+1:i+1], parts[lo:i])
		parts[lo] = pivot
	}
}
