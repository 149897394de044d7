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
	"github.com/thoas/go-funk"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/jobstore"
)

type CreateJobOptions struct {
	GlobalOptions

	Output      string
	Title       string
	Employer    string
	AppliedDate string
	Status      string
	WorkMode    string
	Location    string
	Notes       string
}

func DefaultCreateJobOptions() *CreateJobOptions {
	return &CreateJobOptions{
		GlobalOptions: DefaultGlobalOptions(),
		AppliedDate:   time.Now().Format(time.DateOnly),
		Status:        string(api.JobStatusPreInterview),
		WorkMode:      string(api.WorkModeRemote),
	}
}

func NewCmdCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a resource",
	}
	cmd.AddCommand(NewCmdCreateJob())
	return cmd
}

func NewCmdCreateJob() *cobra.Command {
	o := DefaultCreateJobOptions()
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Record a new job application",
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
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("employer")
	return cmd
}

func (o *CreateJobOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Title, "title", o.Title, "Job title")
	fs.StringVar(&o.Employer, "employer", o.Employer, "Employer name")
	fs.StringVar(&o.AppliedDate, "applied-date", o.AppliedDate, "Date of the application (YYYY-MM-DD)")
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("One of: %s", joinStatuses()))
	fs.StringVar(&o.WorkMode, "work-mode", o.WorkMode, fmt.Sprintf("One of: %s", joinWorkModes()))
	fs.StringVar(&o.Location, "location", o.Location, "City, State[, Country]")
	fs.StringVar(&o.Notes, "notes", o.Notes, "Free text notes")
}

func (o *CreateJobOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !api.JobStatus(o.Status).Valid() {
		return fmt.Errorf("status must be one of %s", joinStatuses())
	}
	if !api.WorkMode(o.WorkMode).Valid() {
		return fmt.Errorf("work mode must be one of %s", joinWorkModes())
	}
	return validateOutput(o.Output)
}

func (o *CreateJobOptions) Run(ctx context.Context, args []string) error {
	create := api.JobCreate{
		Title:       o.Title,
		Employer:    o.Employer,
		AppliedDate: o.AppliedDate,
		Status:      api.JobStatus(o.Status),
		WorkMode:    api.WorkMode(o.WorkMode),
	}
	if o.Location != "" {
		create.Location = &o.Location
	}
	if o.Notes != "" {
		create.Notes = &o.Notes
	}

	store := jobstore.New(o.Client())
	defer store.Close()

	job, err := store.Add(ctx, create)
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	if printed, err := printStructured(job, o.Output); printed {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	printJobsTable(w, job)
	return w.Flush()
}

func joinStatuses() string {
	return strings.Join(funk.Map(api.JobStatuses(), func(s api.JobStatus) string { return string(s) }).([]string), ", ")
}

func joinWorkModes() string {
	return strings.Join(funk.Map(api.WorkModes(), func(w api.WorkMode) string { return string(w) }).([]string), ", ")
}
