package glstring

import (
	"cmp"
	"regexp"
	"strings"
)

// FieldCount is the number of numeric allele fields taken into account.
const FieldCount = 4

// FieldSeparator separates the fields of an allele name, as in "02:01:05:1".
const FieldSeparator = ":"

//nolint:gochecknoglobals // Compiled once; regexp.Regexp is safe for concurrent use.
var numericAllelePattern = regexp.MustCompile(`[0-9:]+`)

// Field is one numeric allele field as canonical decimal digits: no
// leading zeros, "0" for zero. Fields of any size order by value.
type Field string

// Compare orders two fields numerically.
func (f Field) Compare(other Field) int {
	if c := cmp.Compare(len(f), len(other)); c != 0 {
		return c
	}
	return strings.Compare(string(f), string(other))
}

// Fields holds the numeric fields of an allele, most significant first.
// Missing fields are zero.
type Fields [FieldCount]Field

// Compare orders two field tuples lexicographically.
func (f Fields) Compare(other Fields) int {
	for i := range f {
		if c := f[i].Compare(other[i]); c != 0 {
			return c
		}
	}
	return 0
}

// StripAllele returns the first run of digits and colons in allele, which
// drops expression suffixes such as the N in "01:01N". An allele without any
// such run is returned as is.
func StripAllele(allele string) string {
	if m := numericAllelePattern.FindString(allele); m != "" {
		return m
	}
	return allele
}

// AlleleFields extracts up to four numeric fields from an allele string.
//
//	"01:103"     -> {1, 103, 0, 0}
//	"02:01:05:1" -> {2, 1, 5, 1}
//	"01:01N"     -> {1, 1, 0, 0}
//
// Empty or non-numeric fields count as zero.
func AlleleFields(allele string) Fields {
	fields := Fields{zeroField, zeroField, zeroField, zeroField}
	for i, segment := range strings.SplitN(StripAllele(allele), FieldSeparator, FieldCount+1) {
		if i == FieldCount {
			break
		}
		fields[i] = parseField(segment)
	}
	return fields
}

const zeroField Field = "0"

func parseField(segment string) Field {
	if segment == "" {
		return zeroField
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return zeroField
		}
	}
	if digits := strings.TrimLeft(segment, "0"); digits != "" {
		return Field(digits)
	}
	return zeroField
}

// Compare orders two GL String tokens.
//
// Tokens are ordered by locus first, as plain strings. Tokens of the same
// locus are ordered by their allele fields. When either token has no allele
// the two are reported equal, leaving their order to the stable sort.
func Compare(a, b string) int {
	aLocus, aAllele, aHasAllele := SplitLocus(a)
	bLocus, bAllele, bHasAllele := SplitLocus(b)

	if c := strings.Compare(aLocus, bLocus); c != 0 {
		return c
	}
	if !aHasAllele || !bHasAllele {
		return 0
	}

	return AlleleFields(aAllele).Compare(AlleleFields(bAllele))
}
