package bubbletea_test

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/foliopatch/folio"
	"github.com/foliopatch/folio/bubbletea"
	"github.com/foliopatch/folio/gitdiff"
	"github.com/foliopatch/folio/mock"
	"github.com/foliopatch/folio/unidiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

// reviewItems builds review items from records using real preview text and a
// real parser, matching what Reviewer does.
func reviewItems(t *testing.T, records ...folio.ChangeRecord) []bubbletea.ReviewItem {
	t.Helper()

	parser := gitdiff.NewParser()
	items := make([]bubbletea.ReviewItem, 0, len(records))
	for _, r := range records {
		text := unidiff.Text(r)
		diff := &folio.Diff{}
		if text != "" {
			parsed, err := parser.Parse(strings.NewReader(text))
			require.NoError(t, err)
			diff = parsed
		}
		items = append(items, bubbletea.ReviewItem{Record: r, Diff: diff, DiffText: text})
	}
	return items
}

func readmeRecord() folio.ChangeRecord {
	return folio.ChangeRecord{
		Path:   "README.md",
		Before: strPtr("# Hi\n\n## Projects\n\n- first\n"),
		After:  "# Hi\n\n## Projects\n\n- first\n- weatherbot\n",
	}
}

func profileRecord() folio.ChangeRecord {
	return folio.ChangeRecord{
		Path:   "PROFILE.md",
		Before: nil,
		After:  "## Projects\n\n- weatherbot\n",
	}
}

func TestReviewModel_Init(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(reviewItems(t, readmeRecord()))
	cmd := m.Init()

	assert.Nil(t, cmd, "Init should return nil command")
}

func TestReviewModel_ViewBeforeReady(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(nil)
	view := m.View()

	assert.Contains(t, view, "Loading", "View should show loading state before WindowSizeMsg")
}

func TestReviewModel_ViewAfterReady(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(reviewItems(t, readmeRecord()))
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 40),
	)

	// Wait for the change header and diff content to appear
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("change 1/1")) &&
			bytes.Contains(out, []byte("README.md")) &&
			bytes.Contains(out, []byte("weatherbot"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestReviewModel_QuitOnQ(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(nil)
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 40),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestReviewModel_NavigationBetweenChanges(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(reviewItems(t, readmeRecord(), profileRecord()))
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 40),
	)

	// First change shows first
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("README.md (update)"))
	})

	// Navigate to next change with 'n'
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("PROFILE.md (create)"))
	})

	// Navigate back with 'N'
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'N'}})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("README.md (update)"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestReviewModel_AcceptMarksDecision(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(reviewItems(t, readmeRecord()))
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 40),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("0/1 decided"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("● Accept")) &&
			bytes.Contains(out, []byte("1/1 decided"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestReviewModel_RejectMarksDecision(t *testing.T) {
	t.Parallel()

	m := bubbletea.NewReviewModel(reviewItems(t, readmeRecord()))
	tm := teatest.NewTestModel(t, m,
		teatest.WithInitialTermSize(80, 40),
	)

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("0/1 decided"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("● Reject")) &&
			bytes.Contains(out, []byte("1/1 decided"))
	})

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(0))
}

func TestReviewModel_AcceptedSubset(t *testing.T) {
	t.Parallel()

	first := readmeRecord()
	second := profileRecord()

	var model tea.Model = bubbletea.NewReviewModel(reviewItems(t, first, second))
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	// Accept the first change; the model advances to the second
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	// Reject the second
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	rm, ok := model.(bubbletea.ReviewModel)
	require.True(t, ok)

	accepted := rm.Accepted()
	require.Len(t, accepted, 1)
	assert.Equal(t, "README.md", accepted[0].Path)
	assert.False(t, rm.Aborted())
}

func TestReviewModel_AbortOnCtrlC(t *testing.T) {
	t.Parallel()

	var model tea.Model = bubbletea.NewReviewModel(reviewItems(t, readmeRecord()))
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	rm, ok := model.(bubbletea.ReviewModel)
	require.True(t, ok)
	assert.True(t, rm.Aborted())
}

func TestReviewModel_CopyDiff(t *testing.T) {
	t.Parallel()

	record := readmeRecord()
	items := reviewItems(t, record)

	var copied string
	cb := &mock.Clipboard{
		CopyFn: func(content string) error {
			copied = content
			return nil
		},
	}

	var model tea.Model = bubbletea.NewReviewModel(items, bubbletea.WithClipboard(cb))
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	assert.Equal(t, items[0].DiffText, copied)
	assert.Contains(t, copied, "+- weatherbot")
}
