package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/grader/grade"
)

// typeCmd: grader type <literal>
var typeCmd = &cobra.Command{
	Use:   "type <literal>",
	Short: "Print the type of a literal-language value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := grade.LiteralTypeTag(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tag)
		return nil
	},
}
