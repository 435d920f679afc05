package cmd

import (
	"testing"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBuildVars overrides the ldflags variables for the duration of a test.
func setBuildVars(t *testing.T, ver, com, bt string) {
	t.Helper()

	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
		version.ResetBuildVars()
	})

	version.ResetBuildVars()
	Version, Commit, BuildTime = ver, com, bt
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "full output",
			args:     []string{"version"},
			expected: "GL SmartSort\nVersion: v1.2.0\nCommit: abc123\nBuilt: 2025-06-15T10:30:00Z\n",
		},
		{
			name:     "short output",
			args:     []string{"version", "--short"},
			expected: "v1.2.0\n",
		},
		{
			name:     "root version flag",
			args:     []string{"--version"},
			expected: "GL SmartSort\nVersion: v1.2.0\nCommit: abc123\nBuilt: 2025-06-15T10:30:00Z\n",
		},
		{
			name:     "root version flag ignores argument",
			args:     []string{"-v", "A*02:01+A*01:01"},
			expected: "GL SmartSort\nVersion: v1.2.0\nCommit: abc123\nBuilt: 2025-06-15T10:30:00Z\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuildVars(t, "v1.2.0", "abc123", "2025-06-15T10:30:00Z")

			out, err := executeCommand(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestVersionCommand_Defaults(t *testing.T) {
	setBuildVars(t, "", "", "")

	out, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: dev")
	assert.Contains(t, out, "Commit: unknown")
	assert.Contains(t, out, "Built: unknown")
}

func TestVersionCommand_RejectsArguments(t *testing.T) {
	_, err := executeCommand(t, "", "version", "extra")
	require.Error(t, err)
}
