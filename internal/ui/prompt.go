package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompt is a single-line input with a styled prefix. In masked mode the
// typed characters are hidden, for pasting phrases and secrets.
type Prompt struct {
	input   textinput.Model
	focused bool
	masked  bool
}

// NewPrompt creates a new prompt component
func NewPrompt() Prompt {
	ti := textinput.New()
	ti.Placeholder = "/help for commands"
	ti.CharLimit = 4096 // base64 transactions run to ~1.6 KB
	ti.Width = 80

	return Prompt{
		input:   ti,
		focused: true,
	}
}

// Focus sets focus on the prompt
func (p *Prompt) Focus() tea.Cmd {
	p.focused = true
	return p.input.Focus()
}

// Blur removes focus from the prompt
func (p *Prompt) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused returns whether the prompt has focus
func (p *Prompt) Focused() bool {
	return p.focused
}

// SetMasked toggles hidden input.
func (p *Prompt) SetMasked(masked bool) {
	p.masked = masked
	if masked {
		p.input.EchoMode = textinput.EchoPassword
		p.input.EchoCharacter = '•'
		return
	}
	p.input.EchoMode = textinput.EchoNormal
}

// Masked reports whether input is hidden.
func (p *Prompt) Masked() bool {
	return p.masked
}

// SetWidth sets the width of the input
func (p *Prompt) SetWidth(w int) {
	p.input.Width = w - 4 // Account for prompt symbol and spacing
}

// Value returns the current input value
func (p *Prompt) Value() string {
	return p.input.Value()
}

// Reset clears the input
func (p *Prompt) Reset() {
	p.input.Reset()
}

// Update handles input events
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View renders the prompt
func (p *Prompt) View() string {
	style := SelectorDim
	symbol := SymbolPrompt
	if p.masked {
		symbol = SymbolKey
	}
	if p.focused {
		style = PromptStyle
	}
	return style.Render(symbol) + " " + p.input.View()
}
