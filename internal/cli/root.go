package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nsquery/internal/app"
	"nsquery/internal/buildinfo"
	"nsquery/internal/config"
	"nsquery/internal/di"
)

// NewRootCommand builds the nsquery command tree
func NewRootCommand(appCtx *app.Context, container *di.Container) *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   appCtx.BinaryName,
		Short: "Run SuiteQL queries against a NetSuite account",
		Long: `Read-only SuiteQL client. Credentials come from NS_* environment variables
(or a .env file); rows are printed to stdout and diagnostics to stderr.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           buildinfo.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Load(envFile)
		},
	}
	rootCmd.SetIn(appCtx.Stdin)
	rootCmd.SetOut(appCtx.Stdout)
	rootCmd.SetErr(appCtx.Stderr)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile,
		"Load environment variables from this file when it exists")

	rootCmd.AddCommand(
		NewRunCmd(appCtx, container),
		NewSavedCmd(appCtx),
		NewCheckCmd(appCtx, container),
		&cobra.Command{
			Use:   "version",
			Short: "Display the version of " + appCtx.BinaryName,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(appCtx.Stdout, "%s version %s\n", appCtx.BinaryName, buildinfo.String())
			},
		},
	)

	return rootCmd
}
