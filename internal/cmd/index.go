package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/params"
)

type indexReport struct {
	Index      int64             `json:"index" yaml:"index"`
	Assignment params.Assignment `json:"assignment" yaml:"assignment"`
}

func (r indexReport) String() string {
	return strconv.FormatInt(r.Index, 10)
}

func newIndexCmd() *cobra.Command {
	var paramFile string

	cmd := &cobra.Command{
		Use:   "index name=value...",
		Short: "Find the task index of a parameter combination",
		Long: `Find the task index of a combination, the inverse of resolve. Give one
name=value argument per parameter; values are matched by their rendered text.`,
		Example: `  slurmsweep index --paramfile params.toml dataset=B depth=30`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			space, err := params.LoadFile(paramFile)
			if err != nil {
				return err
			}

			assignment, err := parseAssignment(space, args)
			if err != nil {
				return err
			}

			index, err := space.Index(assignment)
			if err != nil {
				return err
			}

			resolved, err := space.Resolve(index)
			if err != nil {
				return err
			}
			return cmdCtx.Print(indexReport{Index: index, Assignment: resolved})
		},
	}

	cmd.Flags().StringVar(&paramFile, "paramfile", "", "parameters TOML file")
	_ = cmd.MarkFlagRequired("paramfile")

	return cmd
}

// parseAssignment turns name=value arguments into an assignment of s
func parseAssignment(s *params.Space, args []string) (params.Assignment, error) {
	assignment := make(params.Assignment, 0, len(args))
	for _, arg := range args {
		name, text, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, invalidAssignmentError(arg)
		}
		value, err := s.Lookup(name, text)
		if err != nil {
			return nil, err
		}
		assignment = append(assignment, params.Binding{Name: name, Value: value})
	}
	return assignment, nil
}
