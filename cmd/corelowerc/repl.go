package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/sunholo/corelower/internal/config"
	"github.com/sunholo/corelower/internal/lower"
	"github.com/sunholo/corelower/internal/srcast"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read one JSON-serialized program per prompt and print its lowering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			runRepl(os.Stdout, cfg)
			return nil
		},
	}
}

// runRepl reads a JSON program, terminated by a blank line, at each
// prompt and prints its Core lowering. A Source REPL would need a
// continuation heuristic for incomplete expressions; here the blank
// line is the only terminator since the payload is already structured.
func runRepl(out io.Writer, cfg lower.Config) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".corelowerc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, bold("corelowerc repl"))
	fmt.Fprintln(out, "paste a JSON-serialized program, then a blank line; :quit to exit")

	for {
		var lines []string
		for {
			prompt := "corelower> "
			if len(lines) > 0 {
				prompt = "......... "
			}
			text, err := line.Prompt(prompt)
			if err == io.EOF {
				fmt.Fprintln(out, green("goodbye"))
				saveHistory(line, historyFile)
				return
			}
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
				saveHistory(line, historyFile)
				return
			}
			if strings.TrimSpace(text) == ":quit" {
				fmt.Fprintln(out, green("goodbye"))
				saveHistory(line, historyFile)
				return
			}
			if strings.TrimSpace(text) == "" {
				break
			}
			lines = append(lines, text)
		}
		if len(lines) == 0 {
			continue
		}
		payload := strings.Join(lines, "\n")
		line.AppendHistory(payload)

		prog, err := srcast.UnmarshalProgram([]byte(payload))
		if err != nil {
			fmt.Fprintf(out, "%s: invalid program JSON: %v\n", red("Error"), err)
			continue
		}
		core, _, err := lower.Run(prog, cfg)
		if err != nil {
			printReport(err)
			continue
		}
		fmt.Fprintln(out, core.String())
	}
}

func saveHistory(line *liner.State, historyFile string) {
	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
