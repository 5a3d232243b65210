// Package cli implements the docqa command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile     string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Document question answering service",
	Long: `docqa indexes a document and answers questions about it.

Upload a PDF or text file, ask questions over HTTP or from the command
line, and get answers grounded in the document with source attribution.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.docqa/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}
