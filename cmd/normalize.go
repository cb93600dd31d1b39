package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/grader/internal/goal"
)

var normalForm string

// normalizeCmd: grader normalize --form dnf <goal>
var normalizeCmd = &cobra.Command{
	Use:   "normalize <goal>",
	Short: "Rewrite a goal formula into a normal form",
	Long: `Rewrites a goal-language formula and prints the result.
Forms: simplify, dnf (default), cnf.
Example) grader normalize "(not (or ?a (and ?b ?c)))"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		n, err := goal.Parse(args[0])
		if err != nil {
			return err
		}

		nz := goal.NewNormalizer(goal.Options{MaxIterations: config.MaxSimplifyIterations})
		var out goal.Node
		switch normalForm {
		case "simplify":
			out, err = nz.Simplify(n)
		case "dnf":
			out, err = nz.ConvertToDNF(n)
		case "cnf":
			out, err = nz.ConvertToCNF(n)
		default:
			return fmt.Errorf("unknown form %q, want simplify, dnf or cnf", normalForm)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalForm, "form", "dnf", "Normal form: simplify, dnf or cnf")
}
