package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applytrack/applytrack/internal/client"
)

type LoginOptions struct {
	GlobalOptions
}

func NewCmdLogin() *cobra.Command {
	o := &LoginOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the server address and token in the client config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func (o *LoginOptions) Run(ctx context.Context, args []string) error {
	if err := o.Client().HealthCheck(ctx); err != nil {
		return fmt.Errorf("reaching %s: %w", o.ServerUrl, err)
	}
	if err := client.WriteConfig(o.ConfigFilePath, o.ServerUrl, o.Token); err != nil {
		return err
	}
	fmt.Printf("configuration written to %s\n", o.ConfigFilePath)
	return nil
}

func NewCmdLogout() *cobra.Command {
	o := DefaultGlobalOptions()
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the token from the client config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := client.ParseConfigFile(o.ConfigFilePath)
			if err != nil {
				return err
			}
			cfg.Service.Token = ""
			return cfg.Persist(o.ConfigFilePath)
		},
		SilenceUsage: true,
	}
	fs := cmd.Flags()
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client config file")
	return cmd
}
