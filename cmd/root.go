package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/grader/grade"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

// errFailed makes the process exit non-zero without printing anything
// beyond what the command already reported.
var errFailed = errors.New("failed")

var rootCmd = &cobra.Command{
	Use:           "grader",
	Short:         "grader - grade answers written in the literal and goal languages",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func loadConfig() (grade.Config, error) {
	return grade.LoadConfig(cfgFile)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", grade.DefaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for grading")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(runCmd)
}
