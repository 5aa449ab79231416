package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/bridge/dialect/sql/schema"
)

func (a *app) migrateCommand() *cobra.Command {
	var dryRun, dropColumn, dropIndex bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database to the models",
		Long: `migrate creates missing tables and modifies existing ones. Columns and
indexes the models do not declare are kept unless dropping them is
enabled. Tables are never dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			g, err := a.graph()
			if err != nil {
				return err
			}
			if res := schema.ValidateSchema(g.Tables()); res.HasErrors() {
				return fmt.Errorf("invalid tables:\n%s", res)
			}
			drv, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer drv.Close()
			m := schema.NewMigrate(drv,
				schema.WithDropColumn(dropColumn),
				schema.WithDropIndex(dropIndex),
				schema.WithLogger(a.logger),
			)
			stmts, err := m.Diff(ctx, g.Tables()...)
			if err != nil {
				return err
			}
			if len(stmts) == 0 {
				fmt.Fprintln(a.out, "schema is up to date")
				return nil
			}
			for _, s := range stmts {
				fmt.Fprintf(a.out, "%s;\n", s)
			}
			if dryRun {
				return nil
			}
			return m.Create(ctx, g.Tables()...)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&dryRun, "dry-run", false, "print the statements without applying them")
	flags.BoolVar(&dropColumn, "drop-column", false, "drop columns the models do not declare")
	flags.BoolVar(&dropIndex, "drop-index", false, "drop indexes the models do not declare")
	return cmd
}
