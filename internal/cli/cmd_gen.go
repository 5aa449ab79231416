package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/bridge/compiler/gen"
)

func (a *app) genCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go structs for the models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.graph()
			if err != nil {
				return err
			}
			cfg := &gen.Config{
				Target:  a.cfg.Gen.Target,
				Package: a.cfg.Gen.Package,
				Logger:  a.logger,
			}
			if err := gen.Generate(cmd.Context(), g, cfg); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "generated %d models in %s\n", len(g.Entities()), cfg.Target)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("target", "", "output directory")
	flags.String("package", "", "package name (default is the base name of the target)")
	if err := a.v.BindPFlag("gen.target", flags.Lookup("target")); err != nil {
		panic(err)
	}
	if err := a.v.BindPFlag("gen.package", flags.Lookup("package")); err != nil {
		panic(err)
	}
	return cmd
}
