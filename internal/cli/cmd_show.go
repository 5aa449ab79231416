package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/syssam/bridge/dialect/sql"
	"github.com/syssam/bridge/session"
)

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ENTITY PK [ATTRIBUTE...]",
		Short: "Print a row of an entity",
		Long: `show loads the row of an entity by primary key and prints its
attributes. Deferred attributes are loaded on demand, so naming one
loads its group. Without attributes, all fields are printed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := a.graph()
			if err != nil {
				return err
			}
			e, ok := g.Entity(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q", args[0])
			}
			pkf, err := e.PrimaryKey()
			if err != nil {
				return err
			}
			var pk any = args[1]
			if pkf.Descriptor().Kind.Integer() {
				if pk, err = strconv.ParseInt(args[1], 10, 64); err != nil {
					return fmt.Errorf("primary key %q: %w", args[1], err)
				}
			}
			drv, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer drv.Close()
			ldrv := sql.NewLogDriver(drv, sql.WithLogger(a.logger))
			s := session.New(ldrv, session.WithLogger(a.logger))
			row, err := s.Get(ctx, e, pk)
			if err != nil {
				return err
			}
			attrs := args[2:]
			if len(attrs) == 0 {
				for _, f := range e.Fields() {
					attrs = append(attrs, f.Name())
				}
			}
			for _, attr := range attrs {
				v, err := row.Get(ctx, attr)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: %v\n", attr, v)
			}
			a.logger.Debug("statements", "stats", ldrv.Stats().Snapshot().String())
			return nil
		},
	}
}
