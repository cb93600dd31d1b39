package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/grader/formatter"
	"github.com/gnoswap-labs/grader/grade"
)

var compareKind string

// compareCmd: grader compare --kind goal <answer> <solution>
var compareCmd = &cobra.Command{
	Use:   "compare <answer> <solution>",
	Short: "Grade a single answer against a solution",
	Long: `Parses both texts in the given language and reports whether the answer is
valid and equivalent to the solution. Exits with status 1 when it is not.
Example) grader compare --kind goal "(and ?b ?a)" "(and ?a ?b)"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if compareKind != "" {
			kind, err := grade.ParseKind(compareKind)
			if err != nil {
				return err
			}
			config.DefaultKind = kind
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		g := grade.NewGraderFromConfig(config, grade.WithLogger(logger))
		answer := args[0]
		r := g.Evaluate(ctx, grade.Question{Name: "answer", Solution: args[1], Answer: &answer})
		if r.Err != nil {
			return r.Err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "valid: %t\ncorrect: %t\n", r.Valid, r.Correct)
		if formatter.Outcome(r) == "" {
			return nil
		}
		fmt.Fprint(out, formatter.GenerateFormattedResults("", []grade.Result{r}))
		if !r.Correct {
			return errFailed
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareKind, "kind", "k", "", "Language of the texts: literal or goal (default from config)")
}
