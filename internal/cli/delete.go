package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/applytrack/applytrack/internal/jobstore"
)

type DeleteOptions struct {
	GlobalOptions
}

func DefaultDeleteOptions() *DeleteOptions {
	return &DeleteOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdDelete() *cobra.Command {
	o := DefaultDeleteOptions()
	cmd := &cobra.Command{
		Use:   "delete TYPE/ID",
		Short: "Delete a job.",
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

func (o *DeleteOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *DeleteOptions) Validate(args []string) error {
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
	return nil
}

func (o *DeleteOptions) Run(ctx context.Context, args []string) error {
	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	store := jobstore.New(o.Client())
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", kind, id, err)
	}
	fmt.Printf("%s/%s deleted\n", kind, id)
	return nil
}
