package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/corelower/internal/config"
	"github.com/sunholo/corelower/internal/lower"
	"github.com/sunholo/corelower/internal/srcast"
)

func newLowerCmd() *cobra.Command {
	var showAsserts bool
	cmd := &cobra.Command{
		Use:   "lower <file.src>",
		Short: "Run the full pipeline and print the resulting Core program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := readProgram(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			core, asserts, err := lower.Run(prog, cfg)
			if err != nil {
				printReport(err)
				os.Exit(1)
			}
			fmt.Println(core.String())
			if showAsserts && len(asserts) > 0 {
				fmt.Fprintln(os.Stderr, bold("discarded asserts:"))
				for _, a := range asserts {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", a.Span, a.Cond)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showAsserts, "show-asserts", false, "print discarded assert hints to stderr")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.src>",
		Short: "Run precheck and lowering without emitting Core; exit code only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := readProgram(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if _, _, err := lower.Run(prog, cfg); err != nil {
				printReport(err)
				os.Exit(1)
			}
			fmt.Println(green("ok"))
			return nil
		},
	}
	return cmd
}

func readProgram(path string) (*srcast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	prog, err := srcast.UnmarshalProgram(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program JSON: %w", err)
	}
	return prog, nil
}
