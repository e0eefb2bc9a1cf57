package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/params"
	"github.com/felixgeelhaar/slurmsweep/internal/render"
)

type listEntry struct {
	Index      int64             `json:"index" yaml:"index"`
	Assignment params.Assignment `json:"assignment" yaml:"assignment"`
	Command    string            `json:"command,omitempty" yaml:"command,omitempty"`
}

func newListCmd() *cobra.Command {
	var (
		paramFile string
		command   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every task index with its combination",
		Example: `  # Every combination, one per line
  slurmsweep list --paramfile params.toml

  # Every rendered command
  slurmsweep list --paramfile params.toml --command 'run --d={dataset} --k={depth}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			space, err := params.LoadFile(paramFile)
			if err != nil {
				return err
			}
			if command != "" {
				if err := render.Validate(command, space); err != nil {
					return err
				}
			}

			if cmdCtx.Text() {
				return space.Each(func(index int64, a params.Assignment) error {
					return writeListLine(cmdCtx.Out, index, a, command)
				})
			}

			entries := make([]listEntry, 0, space.Count())
			err = space.Each(func(index int64, a params.Assignment) error {
				entry := listEntry{Index: index, Assignment: a}
				if command != "" {
					rendered, err := render.Render(command, a)
					if err != nil {
						return err
					}
					entry.Command = rendered
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
			return cmdCtx.Print(entries)
		},
	}

	cmd.Flags().StringVar(&paramFile, "paramfile", "", "parameters TOML file")
	cmd.Flags().StringVar(&command, "command", "", "command template with {name} placeholders")
	_ = cmd.MarkFlagRequired("paramfile")

	return cmd
}

func writeListLine(w io.Writer, index int64, a params.Assignment, command string) error {
	if command != "" {
		rendered, err := render.Render(command, a)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%d\t%s\n", index, rendered)
		return err
	}

	pairs := make([]string, len(a))
	for i, b := range a {
		pairs[i] = b.Name + "=" + b.Value.String()
	}
	_, err := fmt.Fprintf(w, "%d\t%s\n", index, strings.Join(pairs, " "))
	return err
}
