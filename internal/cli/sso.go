package cli

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/applytrack/applytrack/internal/auth"
)

func NewCmdSSO() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sso private-key|token",
		Short: "Generate either the token or the signing private key of a local server",
	}

	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newPrivateKeyCmd())

	return cmd
}

type tokenOptions struct {
	PrivateKeyFile string
	Subject        string
	TTL            time.Duration
}

func (o *tokenOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.PrivateKeyFile, "private-key", "", "file holding the PEM private key used to sign the token")
	fs.StringVar(&o.Subject, "subject", "", "subject (user id) of the token")
	fs.DurationVar(&o.TTL, "ttl", 24*time.Hour, "validity of the token")
}

func newTokenCmd() *cobra.Command {
	o := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a jwt",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(o.PrivateKeyFile)
			if err != nil {
				return err
			}
			privateKey, err := auth.ParsePrivateKey(string(content))
			if err != nil {
				return err
			}

			token, err := auth.GenerateToken(privateKey, o.Subject, o.TTL)
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	o.Bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("private-key")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func newPrivateKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "private-key",
		Short: "Generate a private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				return err
			}
			pemdata := pem.EncodeToMemory(
				&pem.Block{
					Type:  "RSA PRIVATE KEY",
					Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
				},
			)
			fmt.Println(string(pemdata))
			return nil
		},
	}
}
