package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"go.protok.dev/protok/lib/fsext"
)

// GlobalState contains the GlobalFlags and accessors for most of the global
// process-external state like CLI arguments, env vars, standard input, output
// and error, etc. In practice, most of it is normally accessed through the os
// package, but it is routed through this struct so tests can override every
// part of it.
type GlobalState struct {
	Ctx context.Context

	FS    fsext.Fs
	Getwd func() (string, error)

	BinaryName string
	CmdArgs    []string
	Env        map[string]string

	DefaultFlags, Flags GlobalFlags

	OutMutex       *sync.Mutex
	Stdout, Stderr *ConsoleWriter
	Stdin          io.Reader

	OSExit func(int)

	Logger         *logrus.Logger
	FallbackLogger logrus.FieldLogger
}

// NewGlobalState returns a new GlobalState with the given context, everything
// else initialized from the current process state: os.Environ(), os.Args, the
// real filesystem and the real stdout, stderr and stdin.
func NewGlobalState(ctx context.Context) *GlobalState {
	isDumbTerm := os.Getenv("TERM") == "dumb"
	stdoutTTY := !isDumbTerm && (isatty.IsTerminal(os.Stdout.Fd()) ||
		isatty.IsCygwinTerminal(os.Stdout.Fd()))
	stderrTTY := !isDumbTerm && (isatty.IsTerminal(os.Stderr.Fd()) ||
		isatty.IsCygwinTerminal(os.Stderr.Fd()))

	env := buildEnvMap(os.Environ())
	defaultFlags := getDefaultFlags()
	flags := consolidateGlobalFlags(defaultFlags, env)

	stdoutWriter := io.Writer(colorable.NewColorableStdout())
	stderrWriter := io.Writer(colorable.NewColorableStderr())
	if flags.NoColor {
		stdoutWriter = colorable.NewNonColorable(os.Stdout)
		stderrWriter = colorable.NewNonColorable(os.Stderr)
	}

	outMutex := &sync.Mutex{}
	stdout := &ConsoleWriter{Writer: stdoutWriter, IsTTY: stdoutTTY, Mutex: outMutex}
	stderr := &ConsoleWriter{Writer: stderrWriter, IsTTY: stderrTTY, Mutex: outMutex}

	logger := &logrus.Logger{
		Out: stderr,
		Formatter: &logrus.TextFormatter{
			ForceColors:   stderrTTY && !flags.NoColor,
			DisableColors: flags.NoColor || !stderrTTY,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	return &GlobalState{
		Ctx:          ctx,
		FS:           fsext.NewOsFs(),
		Getwd:        os.Getwd,
		BinaryName:   filepath.Base(os.Args[0]),
		CmdArgs:      os.Args,
		Env:          env,
		DefaultFlags: defaultFlags,
		Flags:        flags,
		OutMutex:     outMutex,
		Stdout:       stdout,
		Stderr:       stderr,
		Stdin:        os.Stdin,
		OSExit:       os.Exit,
		Logger:       logger,
		FallbackLogger: &logrus.Logger{
			Out:       stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

// GlobalFlags contains the values of the root command's persistent flags,
// which apply for all protok sub-commands.
type GlobalFlags struct {
	ConfigFilePath string
	Quiet          bool
	NoColor        bool
	LogOutput      string
	LogFormat      string
	Verbose        bool
}

// getDefaultFlags returns the default global flags.
func getDefaultFlags() GlobalFlags {
	return GlobalFlags{
		LogOutput: "stderr",
	}
}

func consolidateGlobalFlags(defaultFlags GlobalFlags, env map[string]string) GlobalFlags {
	result := defaultFlags

	if val, ok := env["PROTOK_CONFIG"]; ok {
		result.ConfigFilePath = val
	}
	if val, ok := env["PROTOK_LOG_OUTPUT"]; ok {
		result.LogOutput = val
	}
	if val, ok := env["PROTOK_LOG_FORMAT"]; ok {
		result.LogFormat = val
	}
	if env["PROTOK_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable the
	// color output from protok.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	return result
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}

// ConsoleWriter wraps one of the process output streams and remembers whether
// it is a terminal, which is what decides coloring. Writes from different
// goroutines are serialized through the shared mutex.
type ConsoleWriter struct {
	Writer io.Writer
	IsTTY  bool
	Mutex  *sync.Mutex
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.Mutex.Lock()
	n, err = w.Writer.Write(p)
	w.Mutex.Unlock()
	return n, err
}
