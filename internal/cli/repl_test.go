package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func typeLine(t *testing.T, m model, line string) model {
	t.Helper()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func newTestModel(t *testing.T) model {
	t.Helper()
	m := initialModel(newTestShell(t, nil))
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func transcript(m model) string {
	var b strings.Builder
	for _, e := range m.entries {
		b.WriteString(e.content)
		b.WriteString("\n")
	}
	return b.String()
}

func TestModel_HiddenMnemonicEntry(t *testing.T) {
	m := newTestModel(t)

	m = typeLine(t, m, "/mnemonic")
	assert.Equal(t, "/mnemonic", m.pending)
	assert.True(t, m.prompt.Masked())

	m = typeLine(t, m, testMnemonic)
	assert.Empty(t, m.pending)
	assert.False(t, m.prompt.Masked())
	assert.Contains(t, transcript(m), firstAddress)
	assert.NotContains(t, transcript(m), "rival")
}

func TestModel_CancelHiddenEntry(t *testing.T) {
	m := newTestModel(t)

	m = typeLine(t, m, "/import")
	require.Equal(t, "/import", m.pending)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, m.pending)
	assert.False(t, m.prompt.Masked())
	assert.Equal(t, 0, m.sh.kr.Len())
}

func TestModel_SecretOutputShownOnce(t *testing.T) {
	m := newTestModel(t)

	m = typeLine(t, m, "/import "+importedSecret)
	assert.NotContains(t, transcript(m), importedSecret)
	assert.Contains(t, transcript(m), "/import ***REDACTED***")

	m = typeLine(t, m, "/export")
	assert.Contains(t, transcript(m), importedSecret)

	m = typeLine(t, m, "/current")
	assert.NotContains(t, transcript(m), importedSecret)
	assert.Contains(t, transcript(m), hiddenSecret)
}

func TestModel_AccountPicker(t *testing.T) {
	m := newTestModel(t)
	m = typeLine(t, m, "/mnemonic "+testMnemonic)
	m = typeLine(t, m, "/derive")

	m = typeLine(t, m, "/use")
	require.True(t, m.picking)
	assert.Contains(t, m.View(), secondAddress)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.picking)

	i, err := m.sh.kr.CurrentIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t)

	m = typeLine(t, m, "hello")
	assert.Contains(t, transcript(m), "Commands start with /")

	m = typeLine(t, m, "/clear")
	assert.Empty(t, m.entries)

	m = typeLine(t, m, "/quit")
	assert.True(t, m.quitting)
}
