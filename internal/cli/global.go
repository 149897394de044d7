package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/applytrack/applytrack/internal/client"
)

type GlobalOptions struct {
	ConfigFilePath string
	ServerUrl      string
	Token          string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: client.DefaultConfigPath(),
		ServerUrl:      "http://localhost:3443",
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client config file")
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server")
	fs.StringVar(&o.Token, "token", o.Token, "Bearer token sent with every request")
}

// Complete fills the server and token from the config file unless they were given as flags.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := client.ParseConfigFile(o.ConfigFilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", o.ConfigFilePath, err)
	}
	if !cmd.Flags().Changed("server-url") {
		o.ServerUrl = cfg.Service.Server
	}
	if !cmd.Flags().Changed("token") {
		o.Token = cfg.Service.Token
	}
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	cfg := client.NewDefault()
	cfg.Service = client.Service{Server: o.ServerUrl, Token: o.Token}
	return cfg.Validate()
}

func (o *GlobalOptions) Client() *client.Client {
	return client.New(o.ServerUrl, o.Token, client.NewHTTPClient())
}
