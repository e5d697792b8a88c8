package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.protok.dev/protok/descriptor"
	"go.protok.dev/protok/project"
)

// cmdCheck handles the `protok check` sub-command
type cmdCheck struct {
	gs *GlobalState

	protoPaths []string
}

func (c *cmdCheck) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringArrayVarP(&c.protoPaths, "proto-path", "I", nil,
		"directory to search for schema files and their imports, can be given more than once")
	return flags
}

func (c *cmdCheck) run(_ *cobra.Command, args []string) error {
	p, err := newProject(c.gs, project.Config{ProtoPaths: c.protoPaths})
	if err != nil {
		return err
	}
	c.gs.Logger.WithField("paths", p.Config().ProtoPaths).Debug("Checking with schema search paths")

	if _, err := p.Load(args[0]); err != nil {
		return err
	}

	protos := p.Protos()
	messages, enums, services := countTypes(protos)
	printToStdout(c.gs, fmt.Sprintf("%s: OK (%d files, %d messages, %d enums, %d services)\n",
		args[0], len(protos), messages, enums, services))

	return nil
}

func countTypes(files []*descriptor.File) (messages, enums, services int) {
	var walk func(ms []*descriptor.Message)
	walk = func(ms []*descriptor.Message) {
		for _, m := range ms {
			messages++
			enums += len(m.Enums)
			walk(m.Messages)
		}
	}
	for _, f := range files {
		walk(f.Messages)
		enums += len(f.Enums)
		services += len(f.Services)
	}
	return messages, enums, services
}

func getCmdCheck(gs *GlobalState) *cobra.Command {
	c := &cmdCheck{gs: gs}

	exampleText := getExampleText(gs, `
  # Validate a schema file and all of its imports
  $ {{.}} check -I schemas vehicle.proto`[1:])

	checkCmd := &cobra.Command{
		Use:   "check [flags] file.proto",
		Short: "Validate a schema file without rendering anything",
		Long: `Validate a schema file without rendering anything.

The file and all of its imports are parsed, and every type reference in the
loaded set is resolved. Nothing is written to disk.`,
		Example: exampleText,
		Args:    exactArgsWithMsg(1, "the schema file to check is required"),
		RunE:    c.run,
	}

	checkCmd.Flags().SortFlags = false
	checkCmd.Flags().AddFlagSet(c.flagSet())

	return checkCmd
}
