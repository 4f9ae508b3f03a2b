package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "scrapcalc",
		Short:        "Compare reusing scrap against selling it and buying new material",
		SilenceUsage: true,
	}
	root.AddCommand(newCompareCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
