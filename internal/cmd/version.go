package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"go.protok.dev/protok/internal/build"
)

// fullVersion returns the maximally full version and build information for
// the currently running protok executable.
func fullVersion() string {
	return fmt.Sprintf("%s (%s, %s/%s)", build.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// versionDetails returns the same information as fullVersion, but as a
// structured map, so it can be printed as JSON.
func versionDetails() map[string]interface{} {
	return map[string]interface{}{
		"version":    "v" + build.Version,
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
	}
}

type versionCmd struct {
	gs     *GlobalState
	isJSON bool
}

func (c *versionCmd) run(cmd *cobra.Command, _ []string) error {
	if !c.isJSON {
		root := cmd.Root()
		root.SetArgs([]string{"--version"})
		_ = root.Execute()
		return nil
	}

	jsonDetails, err := json.Marshal(versionDetails())
	if err != nil {
		return fmt.Errorf("failed produce a JSON version details: %w", err)
	}

	_, err = fmt.Fprintln(c.gs.Stdout, string(jsonDetails))
	return err
}

func getCmdVersion(gs *GlobalState) *cobra.Command {
	versionCmd := &versionCmd{gs: gs}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  `Show the application version and exit.`,
		RunE:  versionCmd.run,
	}

	cmd.Flags().BoolVar(&versionCmd.isJSON, "json", false, "if set, output version information will be in JSON format")

	return cmd
}
