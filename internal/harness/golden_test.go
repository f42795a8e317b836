package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarioGoldens runs every scenario under testdata/scenarios and
// compares its trace against the matching golden file.
func TestScenarioGoldens(t *testing.T) {
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		t.Run(name, func(t *testing.T) {
			sc, err := LoadScenario(filepath.Join("testdata", "scenarios", entry.Name()))
			require.NoError(t, err)
			require.Equal(t, name, sc.Name, "scenario name must match its file name")

			require.NoError(t, RunWithGolden(t, sc))
		})
	}
}
