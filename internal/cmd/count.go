package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/params"
)

type countReport struct {
	ParamFile   string `json:"param_file" yaml:"param_file"`
	Count       int64  `json:"count" yaml:"count"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

func (r countReport) String() string {
	return strconv.FormatInt(r.Count, 10)
}

func newCountCmd() *cobra.Command {
	var paramFile string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of parameter combinations",
		Example: `  # Number of array tasks a sweep needs
  slurmsweep count --paramfile params.toml`,
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

			return cmdCtx.Print(countReport{
				ParamFile:   paramFile,
				Count:       space.Count(),
				Fingerprint: space.Fingerprint(),
			})
		},
	}

	cmd.Flags().StringVar(&paramFile, "paramfile", "", "parameters TOML file")
	_ = cmd.MarkFlagRequired("paramfile")

	return cmd
}
