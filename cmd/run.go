package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/grader/internal/store"
)

var runDBPath string

// runCmd: grader run --db verdicts.db <run-id>
var runCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show a grading run recorded in the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := runDBPath
		if path == "" {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			path = config.Database
		}
		if path == "" {
			return errors.New("no database configured, use --db")
		}

		s, err := store.Open(path, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		run, err := s.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		verdicts, err := s.Verdicts(ctx, run.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run %s: %s\n", run.ID, run.Source)
		fmt.Fprintf(out, "started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.FinishedAt.Valid {
			fmt.Fprintf(out, "total: %d, valid: %d, correct: %d, errors: %d, disagreements: %d\n",
				run.Total, run.Valid, run.Correct, run.Errors, run.Disagreements)
		} else {
			fmt.Fprintln(out, "unfinished")
		}
		for _, v := range verdicts {
			fmt.Fprintf(out, "  %-20s %-8s valid=%t correct=%t", v.Question, v.Kind, v.Valid, v.Correct)
			if v.Error != "" {
				fmt.Fprintf(out, " error=%q", v.Error)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDBPath, "db", "", "SQLite database (default from config)")
}
