// Command parcellate is a minimal host for the parcellation core: it
// loads a marker scene and a query script, executes the query, derives
// relative seeds and prints the resulting parcel bindings. The real host
// is an interactive 3D application; this binary exists for scripted use
// and debugging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parcellate",
		Short: "Derive named anatomical parcels from surface markers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				config := zap.NewDevelopmentConfig()
				logger, err = config.Build()
			} else {
				config := zap.NewProductionConfig()
				config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
				logger, err = config.Build()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
