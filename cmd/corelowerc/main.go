// Command corelowerc is a thin ambient driver around the lowering pass:
// it reads a JSON-serialized Source program (real surface-text parsing
// is an external collaborator, out of scope) and runs it through
// internal/lower, printing the resulting Core program or a structured
// diagnostic.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "corelowerc",
		Short: "Lower a Source program to Core",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML pipeline config")
	root.AddCommand(newLowerCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func printReport(err error) {
	if rep, ok := asReport(err); ok {
		if text, jsonErr := rep.ToJSON(false); jsonErr == nil {
			fmt.Fprintln(os.Stderr, text)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
}
