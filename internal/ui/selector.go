package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yolodolo42/solkeys/internal/wallet"
)

// SelectorItem represents one account in the selector
type SelectorItem struct {
	Address     string
	Description string
	Current     bool
}

// AccountItems builds selector items from keyring entries, marking current.
func AccountItems(entries []wallet.PrivateKeyEntry, current int) []SelectorItem {
	items := make([]SelectorItem, 0, len(entries))
	for i, e := range entries {
		desc := string(e.Source)
		if e.Derived() {
			desc = e.DerivationPath
		}
		items = append(items, SelectorItem{
			Address:     e.Address,
			Description: desc,
			Current:     i == current,
		})
	}
	return items
}

// Selector is an interactive account picker
type Selector struct {
	title    string
	items    []SelectorItem
	cursor   int
	selected int
	active   bool
}

// NewSelector creates a new selector with the cursor on the current item
func NewSelector(title string, items []SelectorItem) Selector {
	selected := 0
	for i, item := range items {
		if item.Current {
			selected = i
			break
		}
	}

	return Selector{
		title:    title,
		items:    items,
		cursor:   selected,
		selected: selected,
		active:   len(items) > 0,
	}
}

// Active returns whether the selector is still accepting input
func (s *Selector) Active() bool {
	return s.active
}

// Selected returns the chosen index; ok is false if the selector was cancelled
// or is still active.
func (s *Selector) Selected() (index int, ok bool) {
	if s.active || s.selected < 0 || s.selected >= len(s.items) {
		return -1, false
	}
	return s.selected, true
}

// Update handles selector input
func (s *Selector) Update(msg tea.Msg) (*Selector, tea.Cmd) {
	if !s.active {
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.items)-1 {
				s.cursor++
			}
		case "enter":
			s.selected = s.cursor
			s.active = false
		case "esc", "q":
			s.selected = -1
			s.active = false
		}
	}

	return s, nil
}

// View renders the selector
func (s *Selector) View() string {
	if !s.active {
		return ""
	}

	var b strings.Builder

	b.WriteString(HelpStyle.Render(s.title + " (↑/↓ navigate, enter select, esc cancel)"))
	b.WriteString("\n\n")

	for i, item := range s.items {
		isCursor := i == s.cursor

		if isCursor {
			b.WriteString(SelectorCursor.Render(SymbolArrow) + " ")
		} else {
			b.WriteString("  ")
		}

		label := fmt.Sprintf("%3d  %-46s", i, item.Address)
		if isCursor {
			b.WriteString(SelectorActive.Render(label))
		} else {
			b.WriteString(SelectorItemStyle.Render(label))
		}

		desc := item.Description
		if item.Current {
			desc += " (current)"
		}
		b.WriteString(SelectorDim.Render(desc))
		b.WriteString("\n")
	}

	return b.String()
}
