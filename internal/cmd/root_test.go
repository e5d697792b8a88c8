package cmd

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.protok.dev/protok/internal/lib/testutils"
	"go.protok.dev/protok/lib/fsext"
)

// globalTestState wraps a GlobalState with everything process-external routed
// into buffers and test hooks, so commands can run start to finish in-process.
type globalTestState struct {
	*GlobalState

	stdout, stderr *bytes.Buffer
	loggerHook     *testutils.SimpleLogrusHook

	expectedExitCode int
}

func newGlobalTestState(t *testing.T) *globalTestState {
	fs := fsext.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/test", 0o755))

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(testutils.NewTestOutput(t))
	hook := testutils.NewLogHook()
	logger.AddHook(hook)

	ts := &globalTestState{
		stdout:     new(bytes.Buffer),
		stderr:     new(bytes.Buffer),
		loggerHook: hook,
	}

	osExitCalled := false
	defaultOsExitHandle := func(exitCode int) {
		assert.Equal(t, ts.expectedExitCode, exitCode)
		osExitCalled = true
	}
	t.Cleanup(func() {
		assert.True(t, osExitCalled, "OSExit was not called")
	})

	outMutex := &sync.Mutex{}
	defaultFlags := getDefaultFlags()

	ts.GlobalState = &GlobalState{
		Ctx:            context.Background(),
		FS:             fs,
		Getwd:          func() (string, error) { return "/test", nil },
		BinaryName:     "protok",
		CmdArgs:        []string{},
		Env:            map[string]string{},
		DefaultFlags:   defaultFlags,
		Flags:          defaultFlags,
		OutMutex:       outMutex,
		Stdout:         &ConsoleWriter{Writer: ts.stdout, Mutex: outMutex},
		Stderr:         &ConsoleWriter{Writer: ts.stderr, Mutex: outMutex},
		Stdin:          new(bytes.Buffer),
		OSExit:         defaultOsExitHandle,
		Logger:         logger,
		FallbackLogger: testutils.NewLogger(t),
	}
	return ts
}

func TestRootCommandHelpDisplayCommands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name               string
		wantStdoutContains string
	}{
		{
			name:               "should have build command",
			wantStdoutContains: "  build       Compile a schema file and render every configured output",
		},
		{
			name:               "should have check command",
			wantStdoutContains: "  check       Validate a schema file without rendering anything",
		},
		{
			name:               "should have dump command",
			wantStdoutContains: "  dump        Print the schema object a template would receive",
		},
		{
			name:               "should have version command",
			wantStdoutContains: "  version     Show application version",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ts := newGlobalTestState(t)
			ts.CmdArgs = []string{"protok", "help"}
			newRootCommand(ts.GlobalState).execute()

			assert.Contains(t, ts.stdout.String(), tc.wantStdoutContains)
		})
	}
}

func TestRootCommandBareShowsHelp(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	ts.CmdArgs = []string{"protok"}
	newRootCommand(ts.GlobalState).execute()

	assert.Len(t, ts.loggerHook.Drain(), 0)
	assert.Contains(t, ts.stdout.String(), "Usage:")
	assert.Contains(t, ts.stdout.String(), "Available Commands:")
}

func TestRootCommandVersionFlag(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	ts.CmdArgs = []string{"protok", "--version"}
	newRootCommand(ts.GlobalState).execute()

	assert.Contains(t, ts.stdout.String(), "protok v"+fullVersion())
}

func TestRootCommandUnsupportedLogOutput(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t)
	ts.CmdArgs = []string{"protok", "check", "x.proto", "--log-output", "weird"}
	ts.expectedExitCode = -1
	newRootCommand(ts.GlobalState).execute()

	entries := ts.loggerHook.Drain()
	assert.True(t, testutils.LogContains(entries, logrus.ErrorLevel, "unsupported log output 'weird'"))
}

func TestRawFormatter(t *testing.T) {
	t.Parallel()

	out, err := RawFormatter{}.Format(&logrus.Entry{Message: "some log line"})
	require.NoError(t, err)
	assert.Equal(t, "some log line\n", string(out))
}

func TestConsolidateGlobalFlags(t *testing.T) {
	t.Parallel()

	defaults := getDefaultFlags()

	testCases := map[string]struct {
		env  map[string]string
		want GlobalFlags
	}{
		"empty environment": {
			env:  nil,
			want: defaults,
		},
		"log output": {
			env:  map[string]string{"PROTOK_LOG_OUTPUT": "stdout"},
			want: GlobalFlags{LogOutput: "stdout"},
		},
		"log format": {
			env:  map[string]string{"PROTOK_LOG_FORMAT": "json"},
			want: GlobalFlags{LogOutput: "stderr", LogFormat: "json"},
		},
		"config path": {
			env:  map[string]string{"PROTOK_CONFIG": "/etc/protok.yaml"},
			want: GlobalFlags{LogOutput: "stderr", ConfigFilePath: "/etc/protok.yaml"},
		},
		"protok no color": {
			env:  map[string]string{"PROTOK_NO_COLOR": "true"},
			want: GlobalFlags{LogOutput: "stderr", NoColor: true},
		},
		"empty protok no color is ignored": {
			env:  map[string]string{"PROTOK_NO_COLOR": ""},
			want: GlobalFlags{LogOutput: "stderr"},
		},
		"no-color.org, even empty": {
			env:  map[string]string{"NO_COLOR": ""},
			want: GlobalFlags{LogOutput: "stderr", NoColor: true},
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, consolidateGlobalFlags(defaults, tc.env))
		})
	}
}

func TestBuildEnvMap(t *testing.T) {
	t.Parallel()

	env := buildEnvMap([]string{"A=1", "B=", "C=x=y"})
	assert.Equal(t, map[string]string{"A": "1", "B": "", "C": "x=y"}, env)
}
