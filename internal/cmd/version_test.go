package cmd

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.protok.dev/protok/internal/build"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	ts.CmdArgs = []string{"protok", "version"}
	newRootCommand(ts.GlobalState).execute()

	assert.Contains(t, ts.stdout.String(), "protok v"+build.Version)
}

func TestVersionCommandJSON(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	ts.CmdArgs = []string{"protok", "version", "--json"}
	newRootCommand(ts.GlobalState).execute()

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(ts.stdout.Bytes(), &details))
	assert.Equal(t, "v"+build.Version, details["version"])
	assert.Equal(t, runtime.Version(), details["go_version"])
}
