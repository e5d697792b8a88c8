package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.protok.dev/protok/project"
	"go.protok.dev/protok/render"
)

// cmdDump handles the `protok dump` sub-command
type cmdDump struct {
	gs *GlobalState

	protoPaths []string
}

func (c *cmdDump) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringArrayVarP(&c.protoPaths, "proto-path", "I", nil,
		"directory to search for schema files and their imports, can be given more than once")
	return flags
}

func (c *cmdDump) run(_ *cobra.Command, args []string) error {
	p, err := newProject(c.gs, project.Config{ProtoPaths: c.protoPaths})
	if err != nil {
		return err
	}

	f, err := p.Load(args[0])
	if err != nil {
		return err
	}

	data, err := p.TemplateData(f)
	if err != nil {
		return err
	}

	manager, err := render.NewManager(c.gs.FS)
	if err != nil {
		return err
	}
	out, err := manager.Render(render.JSONTarget, data)
	if err != nil {
		return err
	}

	_, err = c.gs.Stdout.Write(out)
	return err
}

func getCmdDump(gs *GlobalState) *cobra.Command {
	c := &cmdDump{gs: gs}

	exampleText := getExampleText(gs, `
  # Print the schema object for a schema file as JSON
  $ {{.}} dump -I schemas vehicle.proto

  # Pipe the schema object through jq
  $ {{.}} dump -I schemas vehicle.proto | jq '.messages[].name'`[1:])

	dumpCmd := &cobra.Command{
		Use:   "dump [flags] file.proto",
		Short: "Print the schema object a template would receive",
		Long: `Print the schema object a template would receive, as JSON.

The object is the exact structure custom templates are executed with, so
dumping it is the quickest way to see which fields a template can use.`,
		Example: exampleText,
		Args:    exactArgsWithMsg(1, "the schema file to dump is required"),
		RunE:    c.run,
	}

	dumpCmd.Flags().SortFlags = false
	dumpCmd.Flags().AddFlagSet(c.flagSet())

	return dumpCmd
}
