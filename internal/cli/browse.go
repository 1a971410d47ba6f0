package cli

import (
	"github.com/Sternrassler/artic-table/internal/tui"
	"github.com/Sternrassler/artic-table/pkg/browser"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive artwork table",
		Long: `Opens the paginated artwork table in the terminal.

Keys: ←/→ change page, ↑/↓ move, space toggles a row, a toggles the
whole page, n selects a number of rows starting at the current page,
c clears the selection, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBrowse(cmd)
		},
	}
}

// runBrowse starts the terminal UI. Logs go to the configured file since
// the UI owns the terminal.
func (a *app) runBrowse(cmd *cobra.Command) error {
	if path := a.cfg.Logging.File; path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return err
		}
		defer f.Close()
		logging.Setup(logging.Config{
			Level:  logging.LogLevel(a.cfg.Logging.Level),
			Output: f,
		})
	} else {
		logging.Discard()
	}

	client, cleanup, err := a.newCatalog()
	if err != nil {
		return err
	}
	defer cleanup()

	ctrl := browser.NewController(client, client.PageSize())
	return tui.Run(ctrl)
}
