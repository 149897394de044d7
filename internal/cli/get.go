package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/analytics"
)

type GetOptions struct {
	GlobalOptions

	Output string
	SortBy string
	Order  string
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
		SortBy:        string(analytics.SortByDate),
		Order:         string(analytics.SortDesc),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (TYPE | TYPE/ID)",
		Short: "Display one or many jobs.",
		Args:  cobra.ExactArgs(1),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.SortBy, "sort-by", o.SortBy, "Sort jobs by date, employer or title")
	fs.StringVar(&o.Order, "order", o.Order, "Sort order, asc or desc")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if _, _, err := parseAndValidateKindId(args[0]); err != nil {
		return err
	}

	if !funk.Contains([]analytics.SortBy{analytics.SortByDate, analytics.SortByEmployer, analytics.SortByTitle}, analytics.SortBy(o.SortBy)) {
		return fmt.Errorf("invalid sort key: %s", o.SortBy)
	}
	if !funk.Contains([]analytics.SortOrder{analytics.SortAsc, analytics.SortDesc}, analytics.SortOrder(o.Order)) {
		return fmt.Errorf("invalid sort order: %s", o.Order)
	}

	return validateOutput(o.Output)
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c := o.Client()

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	var jobs []api.Job
	if id != "" {
		job, err := c.GetJob(ctx, id)
		if err != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		if printed, err := printStructured(job, o.Output); printed {
			return err
		}
		jobs = []api.Job{job}
	} else {
		jobs, err = c.ListJobs(ctx)
		if err != nil {
			return fmt.Errorf("listing %s: %w", plural(kind), err)
		}
		jobs = analytics.Sort(jobs, analytics.SortBy(o.SortBy), analytics.SortOrder(o.Order))
		if printed, err := printStructured(jobs, o.Output); printed {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	printJobsTable(w, jobs...)
	return w.Flush()
}

func printJobsTable(w io.Writer, jobs ...api.Job) {
	fmt.Fprintln(w, "ID\tTITLE\tEMPLOYER\tAPPLIED\tSTATUS\tWORK MODE\tLOCATION\tBUCKET")
	for _, j := range jobs {
		location := ""
		if j.Location != nil {
			location = *j.Location
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.Id, j.Title, j.Employer, j.AppliedDate.Format("2006-01-02"), j.Status, j.WorkMode, location, analytics.BucketOf(j))
	}
}
