// Package bubbletea provides the interactive change review UI using the
// Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/unidiff"
)

// decision is the reviewer's verdict on one change.
type decision int

const (
	decisionPending decision = iota
	decisionAccepted
	decisionRejected
)

// ReviewItem bundles one change record with its rendered preview.
type ReviewItem struct {
	Record   folio.ChangeRecord
	Diff     *folio.Diff
	DiffText string
}

// ReviewModel is the Bubble Tea model for reviewing pending changes.
type ReviewModel struct {
	// Data
	items        []ReviewItem
	decisions    []decision
	currentIndex int

	// UI Components
	viewport viewport.Model

	// State
	ready   bool
	aborted bool

	// Rendering
	width, height    int
	styles           folio.Styles
	renderer         *lipgloss.Renderer
	languageDetector folio.LanguageDetector
	tokenizer        folio.Tokenizer
	wordDiffer       folio.WordDiffer

	// External
	clipboard folio.Clipboard

	// Keybindings
	keymap ReviewKeyMap
}

// ReviewModelOption configures a ReviewModel.
type ReviewModelOption func(*ReviewModel)

// WithStyles sets the color styles used for rendering previews.
func WithStyles(styles folio.Styles) ReviewModelOption {
	return func(m *ReviewModel) {
		m.styles = styles
	}
}

// WithRenderer sets the lipgloss renderer (used in tests to force a profile).
func WithRenderer(renderer *lipgloss.Renderer) ReviewModelOption {
	return func(m *ReviewModel) {
		m.renderer = renderer
	}
}

// WithLanguageDetector enables syntax highlighting via language detection.
func WithLanguageDetector(d folio.LanguageDetector) ReviewModelOption {
	return func(m *ReviewModel) {
		m.languageDetector = d
	}
}

// WithTokenizer sets the tokenizer for syntax highlighting.
func WithTokenizer(t folio.Tokenizer) ReviewModelOption {
	return func(m *ReviewModel) {
		m.tokenizer = t
	}
}

// WithWordDiffer enables word-level highlighting on changed line pairs.
func WithWordDiffer(w folio.WordDiffer) ReviewModelOption {
	return func(m *ReviewModel) {
		m.wordDiffer = w
	}
}

// WithClipboard enables copying the current preview to the clipboard.
func WithClipboard(c folio.Clipboard) ReviewModelOption {
	return func(m *ReviewModel) {
		m.clipboard = c
	}
}

// NewReviewModel creates a new ReviewModel with the given items. All changes
// start out undecided.
func NewReviewModel(items []ReviewItem, opts ...ReviewModelOption) ReviewModel {
	m := ReviewModel{
		items:     items,
		decisions: make([]decision, len(items)),
		keymap:    DefaultReviewKeyMap(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ReviewModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Abort):
		m.aborted = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Confirm):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Accept):
		m.decide(decisionAccepted)
		return m, nil

	case key.Matches(msg, m.keymap.Reject):
		m.decide(decisionRejected)
		return m, nil

	case key.Matches(msg, m.keymap.NextChange):
		if m.currentIndex < len(m.items)-1 {
			m.currentIndex++
			m.updateViewportContent()
		}
		return m, nil

	case key.Matches(msg, m.keymap.PrevChange):
		if m.currentIndex > 0 {
			m.currentIndex--
			m.updateViewportContent()
		}
		return m, nil

	case key.Matches(msg, m.keymap.NextPending):
		if idx := m.findNextPending(); idx != -1 && idx != m.currentIndex {
			m.currentIndex = idx
			m.updateViewportContent()
		}
		return m, nil

	case key.Matches(msg, m.keymap.CopyDiff):
		if m.clipboard != nil && len(m.items) > 0 {
			// Best-effort copy - failures don't block the review
			_ = m.clipboard.Copy(m.items[m.currentIndex].DiffText)
		}
		return m, nil

	case key.Matches(msg, m.keymap.ScrollDown):
		m.viewport.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keymap.ScrollUp):
		m.viewport.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keymap.HalfPageDown):
		m.viewport.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keymap.HalfPageUp):
		m.viewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keymap.GotoTop):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keymap.GotoBottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	return m, nil
}

// decide records a verdict for the current change and moves on to the next
// undecided one, if any.
func (m *ReviewModel) decide(d decision) {
	if len(m.items) == 0 {
		return
	}
	m.decisions[m.currentIndex] = d
	if idx := m.findNextPending(); idx != -1 {
		m.currentIndex = idx
		m.updateViewportContent()
	}
}

// findNextPending returns the index of the next undecided change, wrapping
// around. Returns -1 if every change has a verdict.
func (m ReviewModel) findNextPending() int {
	n := len(m.items)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := (m.currentIndex + i) % n
		if m.decisions[idx] == decisionPending {
			return idx
		}
	}
	return -1
}

func (m *ReviewModel) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Reserve: change header (1), status bar (2)
	usableHeight := msg.Height - 3
	if usableHeight < 2 {
		usableHeight = 2
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, usableHeight)
		m.updateViewportContent()
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = usableHeight
		m.updateViewportContent()
	}

	return m, nil
}

func (m *ReviewModel) updateViewportContent() {
	if len(m.items) == 0 {
		m.viewport.SetContent("No pending changes")
		return
	}

	item := m.items[m.currentIndex]
	content := renderDiff(renderConfig{
		diff:             item.Diff,
		styles:           m.styles,
		renderer:         m.renderer,
		width:            m.width,
		languageDetector: m.languageDetector,
		tokenizer:        m.tokenizer,
		wordDiffer:       m.wordDiffer,
	})
	if content == "" {
		content = "(no content changes)"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// Accepted returns the records the reviewer accepted, in original order.
func (m ReviewModel) Accepted() []folio.ChangeRecord {
	var accepted []folio.ChangeRecord
	for i, item := range m.items {
		if m.decisions[i] == decisionAccepted {
			accepted = append(accepted, item.Record)
		}
	}
	return accepted
}

// Aborted reports whether the reviewer aborted instead of finishing.
func (m ReviewModel) Aborted() bool {
	return m.aborted
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder
	s.WriteString(m.renderChangeHeader())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(m.renderDecisionBar())
	s.WriteString("\n")
	s.WriteString(m.renderStatusBar())

	return s.String()
}

func (m ReviewModel) renderChangeHeader() string {
	if len(m.items) == 0 {
		return "No pending changes"
	}

	record := m.items[m.currentIndex].Record
	op := "update"
	if record.Created() {
		op = "create"
	}
	header := fmt.Sprintf("change %d/%d · %s (%s)", m.currentIndex+1, len(m.items), record.Path, op)
	return lipgloss.NewStyle().Bold(true).Render(header)
}

func (m ReviewModel) renderDecisionBar() string {
	if len(m.items) == 0 {
		return ""
	}

	acceptMarker := "○"
	rejectMarker := "○"
	switch m.decisions[m.currentIndex] {
	case decisionAccepted:
		acceptMarker = "●"
	case decisionRejected:
		rejectMarker = "●"
	}

	return fmt.Sprintf("%s Accept  %s Reject", acceptMarker, rejectMarker)
}

func (m ReviewModel) renderStatusBar() string {
	if len(m.items) == 0 {
		return "No changes"
	}

	decided := 0
	var indicators []string
	for _, d := range m.decisions {
		switch d {
		case decisionAccepted:
			decided++
			indicators = append(indicators, "✓")
		case decisionRejected:
			decided++
			indicators = append(indicators, "✗")
		default:
			indicators = append(indicators, "○")
		}
	}

	progress := fmt.Sprintf("%d/%d decided", decided, len(m.items))
	indicatorBar := strings.Join(indicators, " ")
	help := "[a]ccept [r]eject [n/N]nav [u]ndecided [y]ank [j/k]scroll [q]finish"

	return fmt.Sprintf("%s │ %s │ %s", progress, indicatorBar, help)
}

// Ensure Reviewer implements the Reviewer interface.
var _ folio.Reviewer = (*Reviewer)(nil)

// Reviewer implements folio.Reviewer using a Bubble Tea TUI. Each change
// record is shown as a unified-diff preview for an accept/reject verdict.
type Reviewer struct {
	parser folio.Parser
	opts   []ReviewModelOption
}

// NewReviewer creates a new Reviewer. The parser turns preview text into the
// structured diff the renderer consumes.
func NewReviewer(parser folio.Parser, opts ...ReviewModelOption) *Reviewer {
	return &Reviewer{parser: parser, opts: opts}
}

// Review displays the records and blocks until the user finishes or aborts.
// It returns the accepted subset in original order.
func (r *Reviewer) Review(_ context.Context, records []folio.ChangeRecord) ([]folio.ChangeRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	items := make([]ReviewItem, 0, len(records))
	for _, record := range records {
		text := unidiff.Text(record)
		diff := &folio.Diff{}
		if text != "" {
			parsed, err := r.parser.Parse(strings.NewReader(text))
			if err != nil {
				return nil, fmt.Errorf("parsing preview for %s: %w", record.Path, err)
			}
			diff = parsed
		}
		items = append(items, ReviewItem{Record: record, Diff: diff, DiffText: text})
	}

	m := NewReviewModel(items, r.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm, ok := final.(ReviewModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if fm.Aborted() {
		return nil, fmt.Errorf("review aborted")
	}
	return fm.Accepted(), nil
}
