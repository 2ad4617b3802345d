// Command gnu2demangle decodes a GNU v2 mangled C++ symbol name and prints
// its pretty-printed declaration.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gnu2demangle "github.com/abelbriggs1/gnu2-demangler"
	"github.com/abelbriggs1/gnu2-demangler/cxxast"
)

var errorOnFailure bool

var rootCmd = &cobra.Command{
	Use:   "gnu2demangle <symbol>",
	Short: "Decode a GNU v2 mangled C++ symbol name",
	Long: `gnu2demangle decodes GNU v2 (pre-GNUv3) mangled C++ symbol names,
the textual encoding pre-GNUv3 toolchains used to embed type and scoping
information into linker-visible identifiers, and prints the original
declaration they came from.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := args[0]
		sym, err := gnu2demangle.Parse([]byte(symbol))
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), sym.String())
			return nil
		}

		// InvariantViolated always propagates, per §7; every other kind
		// echoes the input unless --error-on-failure was given.
		if errorOnFailure || errors.Is(err, cxxast.ErrInvariantViolated) {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), symbol)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&errorOnFailure, "error-on-failure", "e", false, "on parse failure, report the error and exit non-zero instead of echoing the input")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
