package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/applytrack/applytrack/internal/analytics"
)

type StatsOptions struct {
	GlobalOptions

	Output string
	Range  string
}

// StatsResponse is computed locally from the job list.
type StatsResponse struct {
	Summary analytics.Summary     `json:"summary"`
	Funnel  []analytics.FlowEdge  `json:"funnel"`
	Weekly  []analytics.WeekCount `json:"weekly"`
}

func DefaultStatsOptions() *StatsOptions {
	return &StatsOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Range:         string(analytics.RangeAll),
	}
}

func NewCmdStats() *cobra.Command {
	o := DefaultStatsOptions()
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize your job applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *StatsOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Range, "range", o.Range, "Date range: all, week, month, 3months or 6months")
}

func (o *StatsOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if _, err := analytics.ParseDateRange(o.Range); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *StatsOptions) Run(ctx context.Context, args []string) error {
	jobs, err := o.Client().ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	dateRange, _ := analytics.ParseDateRange(o.Range)
	jobs = analytics.FilterByRange(jobs, dateRange, time.Now())

	stats := StatsResponse{
		Summary: analytics.Summarize(jobs),
		Funnel:  analytics.Funnel(jobs),
		Weekly:  analytics.Velocity(jobs),
	}
	if printed, err := printStructured(stats, o.Output); printed {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "TOTAL\tPRE-INTERVIEW\tINTERVIEW\tOFFER\tREJECTED\tGHOSTED")
	s := stats.Summary
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\n", s.Total, s.PreInterview, s.Interview, s.Offer, s.Rejected, s.Ghosted)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "FROM\tTO\tCOUNT")
	for _, e := range stats.Funnel {
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Source, e.Target, e.Value)
	}
	return w.Flush()
}
