package cmd

import (
	"errors"
	"fmt"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/domain/glstring"

	"github.com/spf13/cobra"
)

// ErrNotEquivalent is returned by the equal command when the GL strings differ.
var ErrNotEquivalent = errors.New("GL strings are not equivalent")

// newEqualCmd implements: gl-smartsort equal GL1 GL2.
func newEqualCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equal GL1 GL2",
		Short: "Report whether two GL strings have the same canonical form",
		Long: `Canonicalize both GL strings and compare the results.

Prints "equal" and exits 0 when they match. Otherwise prints "not equal"
followed by both canonical forms and exits 1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEqual(cmd, args[0], args[1])
		},
	}
}

func runEqual(cmd *cobra.Command, a, b string) error {
	canonicalA := glstring.Canonicalize(a)
	canonicalB := glstring.Canonicalize(b)

	out := cmd.OutOrStdout()
	if canonicalA == canonicalB {
		_, err := fmt.Fprintln(out, "equal")
		return err
	}

	if _, err := fmt.Fprintf(out, "not equal\n  %s\n  %s\n", canonicalA, canonicalB); err != nil {
		return err
	}
	return ErrNotEquivalent
}

func init() { //nolint:gochecknoinits // required by cobra for command registration
	rootCmd.AddCommand(newEqualCmd())
}
