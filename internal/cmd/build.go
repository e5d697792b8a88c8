package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.protok.dev/protok/project"
)

// cmdBuild handles the `protok build` sub-command
type cmdBuild struct {
	gs *GlobalState

	protoPaths []string
}

func (c *cmdBuild) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringArrayVarP(&c.protoPaths, "proto-path", "I", nil,
		"directory to search for schema files and their imports, can be given more than once")
	flags.StringP("template", "t", "", "output target: 'markdown', 'json' or a path to a custom template file")
	flags.StringP("out-dir", "o", "", "directory to write the rendered outputs into")
	flags.String("suffix", "", "file suffix for the rendered outputs, overrides the target default")
	return flags
}

func (c *cmdBuild) run(cmd *cobra.Command, args []string) error {
	p, err := newProject(c.gs, project.Config{
		ProtoPaths: c.protoPaths,
		Template:   getNullString(cmd.Flags(), "template"),
		OutDir:     getNullString(cmd.Flags(), "out-dir"),
		Suffix:     getNullString(cmd.Flags(), "suffix"),
	})
	if err != nil {
		return err
	}

	if _, err := p.Load(args[0]); err != nil {
		return err
	}

	return p.Render()
}

func getCmdBuild(gs *GlobalState) *cobra.Command {
	c := &cmdBuild{gs: gs}

	exampleText := getExampleText(gs, `
  # Render markdown documents for a schema and everything it imports
  $ {{.}} build -I schemas vehicle.proto

  # Render JSON schema objects into ./build
  $ {{.}} build --template json --out-dir build -I schemas vehicle.proto

  # Render through a custom template
  $ {{.}} build --template ./doc.tmpl --suffix .html -I schemas vehicle.proto`[1:])

	buildCmd := &cobra.Command{
		Use:   "build [flags] file.proto",
		Short: "Compile a schema file and render every configured output",
		Long: `Compile a schema file and render every configured output.

The file and all of its imports are parsed and resolved, then every output
job renders each loaded schema file through its template into the job's
output directory.`,
		Example: exampleText,
		Args:    exactArgsWithMsg(1, "the schema file to build is required"),
		RunE:    c.run,
	}

	buildCmd.Flags().SortFlags = false
	buildCmd.Flags().AddFlagSet(c.flagSet())

	return buildCmd
}
