package main

import (
	"os"

	"nsquery/internal/app"
	"nsquery/internal/cli"
	"nsquery/internal/di"
)

func main() {
	appCtx := app.NewContext("nsquery")

	rootCmd := cli.NewRootCommand(appCtx, di.NewContainer())
	if err := rootCmd.Execute(); err != nil {
		cli.ReportError(appCtx, err)
		os.Exit(1)
	}
}
