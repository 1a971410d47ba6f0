package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSelectCmd(a *app) *cobra.Command {
	var (
		count  int
		page   int
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select a number of artworks and print them as JSON",
		Long: `Collects the first --count artworks starting at --page, walking
consecutive pages as needed, and prints the selection as JSON.

The run stops early when the catalog runs out of pages or a page fails to
load; the artworks gathered so far are still printed.`,
		Example: `  # First 15 artworks
  artic-table select --count 15

  # 40 artworks starting at page 3
  artic-table select --count 40 --page 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must be >= 0 (got %d)", count)
			}
			if page < 1 {
				return fmt.Errorf("--page must be >= 1 (got %d)", page)
			}
			a.setupLogging()

			client, cleanup, err := a.newCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			acc := pagination.NewAccumulator(client)
			sel, report := acc.SelectCount(cmd.Context(), count, page, nil)

			if err := writeOutcome(cmd.OutOrStdout(), pagination.NewOutcome(sel, report)); err != nil {
				return err
			}
			if strict && report.Err != nil {
				return fmt.Errorf("selection incomplete: %w", report.Err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of artworks to select")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to start from")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when a page fails to load")

	return cmd
}

// writeOutcome indents the JSON when writing to a terminal.
func writeOutcome(w io.Writer, outcome pagination.Outcome) error {
	enc := json.NewEncoder(w)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(outcome); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}
