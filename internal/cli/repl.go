package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/yolodolo42/solkeys/internal/ui"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap"
)

const hiddenSecret = "[hidden]"

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive keyring shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	rootCmd.PersistentFlags().Bool("audit-log", false, "Record redacted shell commands under $HOME/.solkeys/sessions")
}

// transcriptEntry is one block of shell output.
type transcriptEntry struct {
	role    string // "input", "output", "error", "system"
	content string
	secret  bool
}

// model represents the shell view state
type model struct {
	sh       *shell
	prompt   ui.Prompt
	viewport viewport.Model
	selector ui.Selector
	picking  bool
	pending  string // command waiting for hidden input
	entries  []transcriptEntry
	width    int
	height   int
	ready    bool
	quitting bool
}

func initialModel(sh *shell) model {
	p := ui.NewPrompt()
	p.Focus()

	return model{
		sh:     sh,
		prompt: p,
		entries: []transcriptEntry{
			{
				role:    "system",
				content: "Welcome to solkeys. Keys live in memory only and are gone when you exit.\nType /new or /mnemonic to begin, /help for commands, /quit to exit.",
			},
		},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		prCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}

		if m.picking {
			return m.updateSelector(msg)
		}

		switch msg.Type {
		case tea.KeyEsc:
			if m.pending != "" {
				m.cancelPending()
				return m, nil
			}

		case tea.KeyEnter:
			input := strings.TrimSpace(m.prompt.Value())
			m.prompt.Reset()

			if m.pending != "" {
				return m.submitPending(input)
			}
			if input == "" {
				return m, nil
			}
			if !strings.HasPrefix(input, "/") {
				m.appendEntry(transcriptEntry{role: "error", content: "Commands start with /. Type /help for available commands."})
				return m, nil
			}
			return m.runCommand(input)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.prompt.SetWidth(msg.Width)
		m.updateViewport()
	}

	_, prCmd = m.prompt.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(prCmd, vpCmd)
}

func (m model) runCommand(input string) (tea.Model, tea.Cmd) {
	m.hideSecrets()
	m.entries = append(m.entries, transcriptEntry{role: "input", content: redactLine(input)})

	res, err := m.sh.exec(input)
	return m.applyResult(res, err)
}

func (m model) submitPending(value string) (tea.Model, tea.Cmd) {
	cmd := m.pending
	m.pending = ""
	m.hideSecrets()
	m.prompt.SetMasked(false)

	if value == "" {
		m.appendEntry(transcriptEntry{role: "system", content: "Cancelled."})
		return m, nil
	}
	res, err := m.sh.submitSecret(cmd, value)
	return m.applyResult(res, err)
}

func (m *model) cancelPending() {
	m.pending = ""
	m.prompt.SetMasked(false)
	m.prompt.Reset()
	m.appendEntry(transcriptEntry{role: "system", content: "Cancelled."})
}

func (m model) applyResult(res shellResult, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.appendEntry(transcriptEntry{role: "error", content: err.Error()})
		return m, nil
	}

	switch {
	case res.Quit:
		m.quitting = true
		return m, tea.Quit
	case res.Clear:
		m.entries = nil
		m.updateViewport()
		return m, nil
	case res.Pick:
		m.selector = ui.NewSelector("Select account", m.sh.accountItems())
		m.picking = m.selector.Active()
		return m, nil
	case res.NeedSecret != "":
		m.pending = res.NeedSecret
		m.prompt.SetMasked(true)
	}

	if res.Output != "" {
		m.appendEntry(transcriptEntry{role: "output", content: res.Output, secret: res.Secret})
	}
	return m, nil
}

func (m model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.selector.Update(msg)
	if m.selector.Active() {
		return m, nil
	}

	m.picking = false
	i, ok := m.selector.Selected()
	if !ok {
		return m, nil
	}
	res, err := m.sh.selectAccount(i)
	return m.applyResult(res, err)
}

// hideSecrets replaces secret output from earlier commands.
func (m *model) hideSecrets() {
	for i := range m.entries {
		if m.entries[i].secret {
			m.entries[i].content = hiddenSecret
			m.entries[i].secret = false
		}
	}
}

func (m *model) appendEntry(e transcriptEntry) {
	m.entries = append(m.entries, e)
	m.updateViewport()
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if m.quitting {
		return "Keyring cleared. Goodbye!\n"
	}

	if !m.ready {
		return "Initializing...\n"
	}

	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("  solkeys") + "  " + ui.HelpStyle.Render(m.sh.cluster.Name) + "\n\n")

	if m.picking {
		b.WriteString(m.selector.View())
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")

	help := "  /help • /list • /use • /clear • /quit • Ctrl+C to exit"
	if m.pending != "" {
		help = "  input is hidden • enter to submit • esc to cancel"
	}
	b.WriteString(ui.HelpStyle.Render(help))

	return b.String()
}

func (m *model) updateViewport() {
	var content strings.Builder

	for _, e := range m.entries {
		switch e.role {
		case "input":
			content.WriteString(ui.PromptStyle.Render(ui.SymbolPrompt + " "))
			content.WriteString(ui.InputStyle.Render(e.content))
		case "output":
			if e.secret {
				content.WriteString(ui.SecretStyle.Render(e.content))
			} else {
				content.WriteString(ui.OutputStyle.Render(e.content))
			}
		case "error":
			content.WriteString(ui.ErrorStyle.Render(ui.SymbolCross + " " + e.content))
		case "system":
			content.WriteString(ui.SystemStyle.Render(e.content))
		}
		content.WriteString("\n\n")
	}

	m.viewport.SetContent(content.String())
}

// runShell starts the interactive shell over a fresh keyring.
func runShell(cmd *cobra.Command, args []string) error {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !isInteractive() {
		return fmt.Errorf("the shell needs a terminal; use the wallet, mnemonic and tx subcommands instead")
	}

	cluster, err := cfg.ClusterConfig()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file.
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logger, err := cfg.NewLogger(filepath.Join(cfg.DataDir, "shell.log"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var audit *auditLogger
	if enabled, _ := cmd.Flags().GetBool("audit-log"); enabled {
		audit, err = newAuditLogger(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer audit.Close()
		logger.Info("audit log opened", zap.String("path", audit.Path()))
	}

	kr, err := wallet.NewKeyring(cfg.WalletConfig(logger))
	if err != nil {
		return err
	}
	defer kr.Reset()

	sh := newShell(kr, cluster, audit, logger)
	m := initialModel(sh)
	if cfg.Mnemonic != "" {
		res, err := sh.addMnemonic(cfg.Mnemonic)
		if err != nil {
			return fmt.Errorf("configured mnemonic: %w", err)
		}
		m.entries = append(m.entries, transcriptEntry{role: "output", content: res.Output})
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
