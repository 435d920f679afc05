package glstring

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortParts(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected []string
	}{
		{name: "empty", parts: []string{}, expected: []string{}},
		{name: "single", parts: []string{"A*01:01"}, expected: []string{"A*01:01"}},
		{
			name:     "strictly descending run reversed",
			parts:    []string{"A*03:01", "A*02:01", "A*01:01"},
			expected: []string{"A*01:01", "A*02:01", "A*03:01"},
		},
		{
			name:     "descending run stops at a tie",
			parts:    []string{"A*02:01", "A*01:01", "A*01:01N", "A*00:01"},
			expected: []string{"A*00:01", "A*01:01", "A*01:01N", "A*02:01"},
		},
		{
			name:     "bare locus inserted after ties",
			parts:    []string{"A+", "A*03:01", "A*02:01", "A", "A*01:01", "A*04:01"},
			expected: []string{"A*02:01", "A*03:01", "A", "A*01:01", "A*04:01", "A+"},
		},
		{
			name:     "allele list with bare locus in the middle",
			parts:    []string{"A*03:01", "A*02:01", "A", "A*01:01", "A*04:01"},
			expected: []string{"A*01:01", "A*02:01", "A*03:01", "A", "A*04:01"},
		},
		{
			name:     "bare locus first",
			parts:    []string{"A", "A*02:01", "A*01:01"},
			expected: []string{"A", "A*01:01", "A*02:01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := slices.Clone(tt.parts)
			sortParts(parts)
			assert.Equal(t, tt.expected, parts)
		})
	}
}

func TestSortParts_MatchesStableSortForTotalOrders(t *testing.T) {
	for _, n := range []int{2, 7, 63, 64, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			parts := make([]string, n)
			for i := range parts {
				parts[i] = fmt.Sprintf("%c*%02d:%d", 'A'+rune(i*7%3), i*37%11, i%4)
			}

			want := slices.Clone(parts)
			slices.SortStableFunc(want, Compare)

			sortParts(parts)
			assert.Equal(t, want, parts)
		})
	}
}

func TestCanonicalize_LongLevel(t *testing.T) {
	parts := make([]string, 80)
	for i := range parts {
		parts[i] = fmt.Sprintf("A*01:%d", len(parts)-i)
	}

	got := strings.Split(Canonicalize(strings.Join(parts, DelimiterAlleleList)), DelimiterAlleleList)
	assert.Len(t, got, len(parts))
	assert.Equal(t, "A*01:1", got[0])
	assert.Equal(t, "A*01:80", got[len(got)-1])
}
