// Command projectiongen generates typed projections, entities and an
// operation context from a GraphQL schema.
//
// Usage:
//
//	projectiongen --config projectiongen.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/go-graphql-projection/internal/gen"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		stdout     bool
	)
	cmd := &cobra.Command{
		Use:          "projectiongen",
		Short:        "Generate typed GraphQL projections from a schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := gen.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if stdout {
				out, err := gen.Generate(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := gen.WriteFile(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "generated %s\n", cfg.OutputPath())
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "projectiongen.yaml", "Path to the generator configuration")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the generated code instead of writing the output file")
	return cmd
}
