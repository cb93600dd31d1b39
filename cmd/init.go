package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/grader/grade"
)

// initCmd: grader init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new grader configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", cfgFile)
		return nil
	},
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = grade.DefaultConfigPath
	}
	return grade.WriteConfig(configurationPath, grade.DefaultConfig())
}
