// (c) Copyright Enthought, Inc. 2013

package main

import "github.com/spf13/cobra"

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "erinyes",
		Short:         "Memory-leak detection tooling",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(watchCmd())

	return root
}
