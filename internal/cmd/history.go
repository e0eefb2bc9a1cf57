package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/slurmsweep/internal/ledger"
	"github.com/felixgeelhaar/slurmsweep/internal/ux"
)

// historyView prints ledger records as a table
type historyView []*ledger.Record

func (h historyView) WriteText(w io.Writer, styles ux.Styles) error {
	if len(h) == 0 {
		_, err := fmt.Fprintln(w, styles.Muted.Render("No submissions recorded"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tJOB\tTASKS\tARRAY\tPARAM FILE")
	for _, r := range h {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		job := r.JobID
		if job == "" {
			job = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			id, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Status, job, r.Count, r.Array, r.ParamFile)
	}
	return tw.Flush()
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded submissions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			records, err := ledger.NewStore(cmdCtx.Settings.StateDir).List()
			if err != nil {
				return err
			}
			return cmdCtx.Print(historyView(records))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			record, err := ledger.NewStore(cmdCtx.Settings.StateDir).Load(args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Print((*recordView)(record))
		},
	})

	return cmd
}
