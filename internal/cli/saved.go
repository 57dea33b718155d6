package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"nsquery/internal/app"
)

func NewSavedCmd(appCtx *app.Context) *cobra.Command {
	var queriesFile string

	cmd := &cobra.Command{
		Use:   "saved [name]",
		Short: "List saved queries or print one",
		Long: `Without arguments, list the saved queries. With a name, print that query's
SuiteQL text so it can be edited or piped into "run -".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(queriesFile)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				q, err := catalog.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(appCtx.Stdout, q.Query)
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("NAME", "DESCRIPTION")
			for _, q := range catalog.All() {
				t.Row(q.Name, q.Description)
			}
			fmt.Fprintln(appCtx.Stdout, t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&queriesFile, "queries-file", "", "YAML file of saved queries to use instead of the built-in ones")
	return cmd
}
