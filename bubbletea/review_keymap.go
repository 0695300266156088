package bubbletea

import "github.com/charmbracelet/bubbles/key"

// ReviewKeyMap defines the key bindings for the change review screen.
type ReviewKeyMap struct {
	// Navigation
	NextChange  key.Binding
	PrevChange  key.Binding
	NextPending key.Binding

	// Scrolling
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding

	// Decisions
	Accept key.Binding
	Reject key.Binding

	// Export
	CopyDiff key.Binding

	// General
	Confirm key.Binding
	Abort   key.Binding
}

// DefaultReviewKeyMap returns the default key bindings for the review screen.
func DefaultReviewKeyMap() ReviewKeyMap {
	return ReviewKeyMap{
		NextChange: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next change"),
		),
		PrevChange: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous change"),
		),
		NextPending: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "next undecided"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "scroll up"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept change"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reject change"),
		),
		CopyDiff: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy diff to clipboard"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("q", "enter"),
			key.WithHelp("q", "finish review"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}
