package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/internal/cli"
)

func main() {
	command := NewApplytrackCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewApplytrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applytrack [flags] [options]",
		Short: "applytrack manages your job applications.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdLogin())
	cmd.AddCommand(cli.NewCmdLogout())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdCreate())
	cmd.AddCommand(cli.NewCmdUpdate())
	cmd.AddCommand(cli.NewCmdDelete())
	cmd.AddCommand(cli.NewCmdStats())
	cmd.AddCommand(cli.NewCmdExport())
	cmd.AddCommand(cli.NewCmdInfo())
	cmd.AddCommand(cli.NewCmdVersion())
	cmd.AddCommand(cli.NewCmdSSO())

	return cmd
}
