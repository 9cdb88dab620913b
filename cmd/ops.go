package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/intradiff/internal/diff"
	"github.com/zjrosen/intradiff/internal/intraline"
)

var opsCmd = &cobra.Command{
	Use:   "ops --old A --new B",
	Short: "Print the intraline opcodes between two files",
	Long: `Treat every line of A as removed and every line of B as added, align
the two texts token by token, and print the resulting operations as JSON
tuples of rune offsets, one per line:

  ["equal",0,16,0,16]
  ["replace",16,26,16,25]`,
	Args: cobra.NoArgs,
	RunE: runOps,
}

var (
	opsOld string
	opsNew string
)

func init() {
	opsCmd.Flags().StringVar(&opsOld, "old", "", "old file")
	opsCmd.Flags().StringVar(&opsNew, "new", "", "new file")
	_ = opsCmd.MarkFlagRequired("old")
	_ = opsCmd.MarkFlagRequired("new")
	rootCmd.AddCommand(opsCmd)
}

func runOps(cmd *cobra.Command, _ []string) error {
	if opsOld == "" || opsNew == "" {
		return errors.New("--old and --new are required")
	}
	oldText, err := os.ReadFile(opsOld)
	if err != nil {
		return fmt.Errorf("reading old file: %w", err)
	}
	newText, err := os.ReadFile(opsNew)
	if err != nil {
		return fmt.Errorf("reading new file: %w", err)
	}
	computer, err := newComputer(cfg.Intraline)
	if err != nil {
		return err
	}
	return writeOps(cmd.OutOrStdout(), computer, string(oldText), string(newText))
}

// writeOps prints the ops of oldText against newText as one delta group.
func writeOps(w io.Writer, computer *intraline.Computer, oldText, newText string) error {
	lines := append(deltaLines(oldText, diff.LineRemove), deltaLines(newText, diff.LineAdd)...)
	for _, op := range computer.ComputeOps(lines) {
		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("encoding op: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

func deltaLines(text string, t diff.LineType) []diff.Line {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	lines := make([]diff.Line, len(parts))
	for i, p := range parts {
		lines[i] = diff.Line{Type: t, Text: strings.TrimSuffix(p, "\r")}
		if t == diff.LineRemove {
			lines[i].BeforeNumber = i + 1
		} else {
			lines[i].AfterNumber = i + 1
		}
	}
	return lines
}
