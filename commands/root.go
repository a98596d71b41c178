// Package commands holds the fotos command line: the web server and the
// offline tools that work on export files.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the fotos command tree.
func NewRootCommand() *cobra.Command {
	var configFlag string
	cc := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "fotos",
		Short:         "Photo inventory server and export tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := cc.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(cc))
	rootCmd.AddCommand(newStatsCommand(cc))
	rootCmd.AddCommand(newCheckCommand(cc))
	rootCmd.AddCommand(newValidateCommand(cc))
	rootCmd.AddCommand(newPDFCommand(cc))

	return rootCmd
}
