package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nsquery/internal/app"
	"nsquery/internal/clients/netsuite"
	"nsquery/internal/config"
	"nsquery/internal/di"
)

func NewCheckCmd(appCtx *app.Context, container *di.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate credentials and settings without contacting NetSuite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := appCtx.Credentials()
			if err != nil {
				return err
			}
			if _, err := container.Executor(creds, appCtx.Settings, appCtx.Logger.WithPrefix("netsuite")); err != nil {
				return err
			}

			out := appCtx.Stdout
			fmt.Fprintf(out, "account:         %s\n", creds.AccountID)
			fmt.Fprintf(out, "realm:           %s\n", netsuite.Realm(creds.AccountID))
			fmt.Fprintf(out, "endpoint:        %s\n", creds.RESTBaseURL+netsuite.SuiteQLPath)
			fmt.Fprintf(out, "consumer key:    %s\n", config.Mask(creds.ConsumerKey))
			fmt.Fprintf(out, "consumer secret: %s\n", config.Redact(creds.ConsumerSecret))
			fmt.Fprintf(out, "token id:        %s\n", config.Mask(creds.TokenID))
			fmt.Fprintf(out, "token secret:    %s\n", config.Redact(creds.TokenSecret))
			fmt.Fprintf(out, "timeout:         %s\n", appCtx.Settings.Timeout)
			fmt.Fprintln(out, "Credentials OK")
			return nil
		},
	}
}
