package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/bridge/dialect/sql/schema"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [TABLE...]",
		Short: "Print the tables of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer drv.Close()
			tables, err := schema.NewMigrate(drv, schema.WithLogger(a.logger)).Inspect(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range tables {
				if len(args) > 0 && !slices.Contains(args, t.Name) {
					continue
				}
				printTable(a.out, t)
			}
			return nil
		},
	}
}

func printTable(out io.Writer, t *schema.Table) {
	fmt.Fprintf(out, "%s\n", t.Name)
	for _, c := range t.Columns {
		var attrs []string
		if c.PrimaryKey {
			attrs = append(attrs, "PRIMARY KEY")
		}
		if c.Increment {
			attrs = append(attrs, "AUTOINCREMENT")
		}
		if c.Nullable {
			attrs = append(attrs, "NULL")
		} else {
			attrs = append(attrs, "NOT NULL")
		}
		fmt.Fprintf(out, "  %-20s %-16s %s\n", c.Name, c.TypeName(), strings.Join(attrs, " "))
	}
	for _, idx := range t.Indexes {
		kind := "INDEX"
		if idx.Unique {
			kind = "UNIQUE INDEX"
		}
		names := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			names[i] = c.Name
		}
		fmt.Fprintf(out, "  %s %s (%s)\n", kind, idx.Name, strings.Join(names, ", "))
	}
}
