package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/jobstore"
)

type UpdateOptions struct {
	GlobalOptions

	Output      string
	Title       string
	Employer    string
	AppliedDate string
	Status      string
	WorkMode    string
	Location    string
	Notes       string
	Rejected    bool
	Ghosted     bool

	update api.JobUpdate
}

func DefaultUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdUpdate() *cobra.Command {
	o := DefaultUpdateOptions()
	cmd := &cobra.Command{
		Use:   "update TYPE/ID",
		Short: "Change fields of a job. Only the given flags are sent.",
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

func (o *UpdateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Title, "title", o.Title, "Job title")
	fs.StringVar(&o.Employer, "employer", o.Employer, "Employer name")
	fs.StringVar(&o.AppliedDate, "applied-date", o.AppliedDate, "Date of the application (YYYY-MM-DD)")
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("One of: %s", joinStatuses()))
	fs.StringVar(&o.WorkMode, "work-mode", o.WorkMode, fmt.Sprintf("One of: %s", joinWorkModes()))
	fs.StringVar(&o.Location, "location", o.Location, "City, State[, Country]. An empty value clears it")
	fs.StringVar(&o.Notes, "notes", o.Notes, "Free text notes")
	fs.BoolVar(&o.Rejected, "rejected", o.Rejected, "Mark the application as rejected")
	fs.BoolVar(&o.Ghosted, "ghosted", o.Ghosted, "Mark the application as ghosted")
}

// Complete builds the patch from the flags the user actually set.
func (o *UpdateOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("title") {
		o.update.Title = &o.Title
	}
	if changed("employer") {
		o.update.Employer = &o.Employer
	}
	if changed("applied-date") {
		o.update.AppliedDate = &o.AppliedDate
	}
	if changed("status") {
		status := api.JobStatus(o.Status)
		o.update.Status = &status
	}
	if changed("work-mode") {
		mode := api.WorkMode(o.WorkMode)
		o.update.WorkMode = &mode
	}
	if changed("location") {
		o.update.Location = &o.Location
	}
	if changed("notes") {
		o.update.Notes = &o.Notes
	}
	if changed("rejected") {
		o.update.Rejected = &o.Rejected
	}
	if changed("ghosted") {
		o.update.Ghosted = &o.Ghosted
	}
	return nil
}

func (o *UpdateOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	_, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("a job id is required: job/ID")
	}
	if o.update.Status != nil && !o.update.Status.Valid() {
		return fmt.Errorf("status must be one of %s", joinStatuses())
	}
	if o.update.WorkMode != nil && !o.update.WorkMode.Valid() {
		return fmt.Errorf("work mode must be one of %s", joinWorkModes())
	}
	return validateOutput(o.Output)
}

func (o *UpdateOptions) Run(ctx context.Context, args []string) error {
	_, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	store := jobstore.New(o.Client())
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		return err
	}
	job, err := store.Update(ctx, id, o.update)
	if err != nil {
		return fmt.Errorf("updating job/%s: %w", id, err)
	}

	if printed, err := printStructured(job, o.Output); printed {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	printJobsTable(w, job)
	return w.Flush()
}
