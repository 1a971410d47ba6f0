package tui

import (
	"context"
	"time"

	"github.com/Sternrassler/artic-table/pkg/browser"
	tea "github.com/charmbracelet/bubbletea"
)

// Command factories for async operations

// pageTimeout bounds a single page load from the UI.
const pageTimeout = 30 * time.Second

// LoadPageCmd loads a page into the controller
func LoadPageCmd(ctrl *browser.Controller, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pageTimeout)
		defer cancel()

		if _, err := ctrl.LoadPage(ctx, page); err != nil {
			return ErrMsg{Err: err, Context: "loading page"}
		}
		return PageLoadedMsg{Page: page}
	}
}

// SelectCountCmd runs a bulk selection of n records from the current page
func SelectCountCmd(ctrl *browser.Controller, n int) tea.Cmd {
	return func() tea.Msg {
		_, report := ctrl.SelectCount(context.Background(), n)
		return BulkSelectDoneMsg{Report: report}
	}
}

// ClearStatusCmd clears the status line after d
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
