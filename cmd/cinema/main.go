// Command cinema runs the cinema GraphQL server and a demo client that
// exercises the typed projections against it.
//
// Usage:
//
//	cinema serve --addr :8080
//	cinema demo --url http://localhost:8080/graphql --user admin --password admin
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cinema",
		Short:        "Cinema GraphQL server and demo client",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCommand(), newDemoCommand())
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
