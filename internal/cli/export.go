package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

var legalExportFormats = []string{"xlsx", "csv"}

type ExportOptions struct {
	GlobalOptions

	Format     string
	OutputFile string
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Format:        "xlsx",
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every job as a spreadsheet",
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

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Format, "format", o.Format, "xlsx or csv")
	fs.StringVarP(&o.OutputFile, "output-file", "f", o.OutputFile, "Destination file. Defaults to applytrack-jobs-<date>.<format>")
}

func (o *ExportOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !funk.ContainsString(legalExportFormats, o.Format) {
		return fmt.Errorf("format must be one of xlsx, csv")
	}
	return nil
}

func (o *ExportOptions) Run(ctx context.Context, args []string) error {
	filename := o.OutputFile
	if filename == "" {
		filename = fmt.Sprintf("applytrack-jobs-%s.%s", time.Now().Format(time.DateOnly), o.Format)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}

	if err := o.Client().Export(ctx, o.Format, f); err != nil {
		_ = f.Close()
		_ = os.Remove(filename)
		return fmt.Errorf("exporting jobs: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("jobs written to %s\n", filename)
	return nil
}
