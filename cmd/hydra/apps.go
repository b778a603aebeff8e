package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydra/internal/demo"
)

func appsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the built-in demo apps",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, name := range demo.Names() {
				app, _ := demo.Lookup(name)
				fmt.Fprintf(w, "%-10s %s\n", app.Name, app.Description)
			}
		},
	}
}
