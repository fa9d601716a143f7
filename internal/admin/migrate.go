package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and print their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// opening the store applies pending migrations
			return o.withEnv(cmd, func(ctx context.Context, e *env) error {
				states, err := e.store.MigrationStatus(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				headerColor.Fprintf(out, "Migrations (%s)\n", e.store.Dialect())
				for _, s := range states {
					mark := warnColor.Sprint("pending")
					if s.Applied {
						mark = okColor.Sprint("applied")
					}
					fmt.Fprintf(out, "  %05d  %-40s %s\n", s.Version, s.Name, mark)
				}
				return nil
			})
		},
	}
}
