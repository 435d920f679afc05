package glstring

import "strings"

// GL String delimiters, from the outermost (loosest binding) to the innermost.
const (
	DelimiterLocus        = "^" // loci of a multilocus unphased genotype
	DelimiterGenotypeList = "|" // alternative genotypes
	DelimiterGenotype     = "+" // gene copies of a genotype
	DelimiterHaplotype    = "~" // phased alleles on a haplotype
	DelimiterAlleleList   = "/" // ambiguous alleles
)

// Delimiters lists the GL String delimiters in precedence order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var Delimiters = []string{
	DelimiterLocus,
	DelimiterGenotypeList,
	DelimiterGenotype,
	DelimiterHaplotype,
	DelimiterAlleleList,
}

// Canonicalize returns the canonical form of a GL String.
//
// The highest-precedence delimiter present anywhere in s governs the top
// level, even if a lower-precedence delimiter appears earlier in the text.
// Each part is canonicalized recursively, the parts are stable-sorted with
// Compare and joined back with the same delimiter. A string without any
// delimiter is returned unchanged.
func Canonicalize(s string) string {
	delim, ok := ActiveDelimiter(s)
	if !ok {
		return s
	}

	parts := strings.Split(s, delim)
	for i, part := range parts {
		parts[i] = Canonicalize(part)
	}
	sortParts(parts)

	return strings.Join(parts, delim)
}

// ActiveDelimiter reports the delimiter that governs the top level of s.
func ActiveDelimiter(s string) (string, bool) {
	for _, delim := range Delimiters {
		if strings.Contains(s, delim) {
			return delim, true
		}
	}
	return "", false
}

// IsCanonical reports whether s is already in canonical form.
func IsCanonical(s string) bool {
	return Canonicalize(s) == s
}

// Equivalent reports whether a and b describe the same genotype list, that
// is whether they share a canonical form.
func Equivalent(a, b string) bool {
	return Canonicalize(a) == Canonicalize(b)
}
