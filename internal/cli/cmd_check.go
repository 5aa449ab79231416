package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/bridge/dialect/sql/schema"
)

func (a *app) checkCommand() *cobra.Command {
	var (
		live bool
		opts struct{ dropColumn, dropIndex, nullToNotNull bool }
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the models, and their drift from the database with --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.graph()
			if err != nil {
				return err
			}
			res := schema.ValidateSchema(g.Tables())
			fmt.Fprintf(a.out, "models: %s\n", res)
			failed := res.HasErrors()
			if live {
				drv, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				defer drv.Close()
				current, err := schema.NewMigrate(drv, schema.WithLogger(a.logger)).Inspect(cmd.Context())
				if err != nil {
					return err
				}
				var vopts []schema.ValidateOption
				if opts.dropColumn {
					vopts = append(vopts, schema.AllowDropColumn())
				}
				if opts.dropIndex {
					vopts = append(vopts, schema.AllowDropIndex())
				}
				if opts.nullToNotNull {
					vopts = append(vopts, schema.AllowNullToNotNull())
				}
				diff := schema.ValidateDiff(current, g.Tables(), vopts...)
				fmt.Fprintf(a.out, "database: %s\n", diff)
				failed = failed || diff.HasErrors()
			}
			if failed {
				return errors.New("check failed")
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&live, "db", false, "compare the models with the database")
	flags.BoolVar(&opts.dropColumn, "allow-drop-column", false, "accept database columns the models do not declare")
	flags.BoolVar(&opts.dropIndex, "allow-drop-index", false, "accept database indexes the models do not declare")
	flags.BoolVar(&opts.nullToNotNull, "allow-null-to-not-null", false, "accept nullable columns becoming NOT NULL")
	return cmd
}
