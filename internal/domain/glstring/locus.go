package glstring

import "strings"

// AlleleSeparator separates a locus name from its allele designation.
const AlleleSeparator = "*"

// SplitLocus splits a token such as "HLA-A*01:01" into its locus and allele.
//
// Only the first separator is significant; anything after it, including
// further separators, belongs to the allele. hasAllele is false when the
// token carries no separator at all, and true for a trailing separator with
// an empty allele.
func SplitLocus(token string) (locus, allele string, hasAllele bool) {
	return strings.Cut(token, AlleleSeparator)
}
