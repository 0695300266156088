package bubbletea

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/foliopatch/folio"
)

// ViewerModel is the Bubble Tea model for read-only diff viewing.
type ViewerModel struct {
	diff     *folio.Diff
	viewport viewport.Model
	ready    bool

	width            int
	styles           folio.Styles
	renderer         *lipgloss.Renderer
	languageDetector folio.LanguageDetector
	tokenizer        folio.Tokenizer
	wordDiffer       folio.WordDiffer
}

// ViewerOption configures a ViewerModel.
type ViewerOption func(*ViewerModel)

// ViewerWithStyles sets the color styles used for rendering.
func ViewerWithStyles(styles folio.Styles) ViewerOption {
	return func(m *ViewerModel) {
		m.styles = styles
	}
}

// ViewerWithRenderer sets the lipgloss renderer (used in tests to force a profile).
func ViewerWithRenderer(renderer *lipgloss.Renderer) ViewerOption {
	return func(m *ViewerModel) {
		m.renderer = renderer
	}
}

// ViewerWithLanguageDetector enables syntax highlighting via language detection.
func ViewerWithLanguageDetector(d folio.LanguageDetector) ViewerOption {
	return func(m *ViewerModel) {
		m.languageDetector = d
	}
}

// ViewerWithTokenizer sets the tokenizer for syntax highlighting.
func ViewerWithTokenizer(t folio.Tokenizer) ViewerOption {
	return func(m *ViewerModel) {
		m.tokenizer = t
	}
}

// ViewerWithWordDiffer enables word-level highlighting on changed line pairs.
func ViewerWithWordDiffer(w folio.WordDiffer) ViewerOption {
	return func(m *ViewerModel) {
		m.wordDiffer = w
	}
}

// NewViewerModel creates a new ViewerModel with the given diff.
func NewViewerModel(diff *folio.Diff, opts ...ViewerOption) ViewerModel {
	m := ViewerModel{diff: diff}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		content := renderDiff(renderConfig{
			diff:             m.diff,
			styles:           m.styles,
			renderer:         m.renderer,
			width:            m.width,
			languageDetector: m.languageDetector,
			tokenizer:        m.tokenizer,
			wordDiffer:       m.wordDiffer,
		})
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.viewport.SetContent(content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height
			m.viewport.SetContent(content)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ViewerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View()
}

// Viewer implements folio.Viewer using a Bubble Tea TUI.
type Viewer struct {
	opts []ViewerOption
}

// NewViewer creates a new Viewer.
func NewViewer(opts ...ViewerOption) *Viewer {
	return &Viewer{opts: opts}
}

// Ensure Viewer implements the Viewer interface.
var _ folio.Viewer = (*Viewer)(nil)

// View displays the diff and blocks until the user exits.
func (v *Viewer) View(_ context.Context, diff *folio.Diff) error {
	m := NewViewerModel(diff, v.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
