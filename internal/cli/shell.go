package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yolodolo42/solkeys/internal/chain"
	"github.com/yolodolo42/solkeys/internal/ui"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap"
)

const shellHelp = `Available commands:
  /new               - Generate a mnemonic and derive the first account
  /mnemonic [words]  - Add a mnemonic (prompts with hidden input if omitted)
  /derive [n]        - Derive the next account from mnemonic n (default 0)
  /import [secret]   - Import a base58 private key (prompts if omitted)
  /list              - List accounts
  /use [i]           - Select the current account (picker if omitted)
  /current           - Show the current account
  /export [i]        - Print the private key of account i (default current)
  /sign <tx>         - Sign a base64 transaction with the current account
  /verify <tx>       - Show the signature status of a base64 transaction
  /reset             - Forget every mnemonic and key
  /clear             - Clear the screen
  /help, /?          - Show this help
  /quit, /exit       - Exit solkeys`

var errUnknownCommand = errors.New("unknown command")

// shellResult is what a command hands back to the view.
type shellResult struct {
	Output string
	// Secret marks output holding a phrase or private key. It is shown
	// once and replaced in the transcript on the next command.
	Secret bool
	Quit   bool
	Clear  bool
	// Pick asks the view to open the account selector.
	Pick bool
	// NeedSecret names the command waiting for hidden input.
	NeedSecret string
}

// shell executes slash commands against one keyring. It holds no view
// state so it can be driven directly in tests.
type shell struct {
	kr      *wallet.Keyring
	cluster *chain.ClusterConfig
	audit   *auditLogger
	log     *zap.Logger
}

func newShell(kr *wallet.Keyring, cluster *chain.ClusterConfig, audit *auditLogger, logger *zap.Logger) *shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shell{kr: kr, cluster: cluster, audit: audit, log: logger.Named("shell")}
}

// exec runs one input line and records it in the audit log.
func (s *shell) exec(line string) (shellResult, error) {
	res, err := s.dispatch(line)

	account, _ := s.kr.CurrentAddress()
	s.audit.logCommand(line, account, err)
	if err != nil {
		s.log.Debug("command failed", zap.String("command", redactLine(line)), zap.Error(err))
	}
	return res, err
}

func (s *shell) dispatch(line string) (shellResult, error) {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit", "/q":
		return shellResult{Quit: true}, nil
	case "/clear":
		return shellResult{Clear: true}, nil
	case "/help", "/?":
		return shellResult{Output: shellHelp}, nil
	case "/new":
		return s.newMnemonic()
	case "/mnemonic":
		if arg == "" {
			return shellResult{Output: "Paste mnemonic (hidden):", NeedSecret: cmd}, nil
		}
		return s.addMnemonic(arg)
	case "/derive":
		return s.derive(arg)
	case "/import":
		if arg == "" {
			return shellResult{Output: "Paste base58 private key (hidden):", NeedSecret: cmd}, nil
		}
		return s.importKey(arg)
	case "/list":
		return s.list(), nil
	case "/use":
		return s.use(arg)
	case "/current":
		return s.current()
	case "/export":
		return s.export(arg)
	case "/sign":
		return s.sign(arg)
	case "/verify":
		return s.verify(arg)
	case "/reset":
		s.kr.Reset()
		return shellResult{Output: "Keyring cleared."}, nil
	default:
		return shellResult{}, fmt.Errorf("%w: %s (type /help for available commands)", errUnknownCommand, cmd)
	}
}

// submitSecret completes a command that asked for hidden input.
func (s *shell) submitSecret(cmd, value string) (shellResult, error) {
	if _, ok := secretCommands[cmd]; !ok {
		return shellResult{}, fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
	return s.exec(cmd + " " + value)
}

func (s *shell) newMnemonic() (shellResult, error) {
	phrase, err := wallet.GenerateMnemonic()
	if err != nil {
		return shellResult{}, err
	}
	entry, err := s.kr.AddMnemonic(phrase)
	if err != nil {
		return shellResult{}, err
	}
	out := fmt.Sprintf("Mnemonic: %s\n\nWrite it down. It is not stored anywhere.\n\n%s",
		phrase, s.describeMnemonic(entry))
	return shellResult{Output: out, Secret: true}, nil
}

func (s *shell) addMnemonic(phrase string) (shellResult, error) {
	entry, err := s.kr.AddMnemonic(phrase)
	if err != nil {
		return shellResult{}, err
	}
	return shellResult{Output: s.describeMnemonic(entry)}, nil
}

func (s *shell) derive(arg string) (shellResult, error) {
	n := 0
	if arg != "" {
		var err error
		if n, err = strconv.Atoi(arg); err != nil {
			return shellResult{}, fmt.Errorf("%w: %q", wallet.ErrIndexOutOfRange, arg)
		}
	}
	entry, err := s.kr.DeriveAndAddPrivateKeyAt(n)
	if err != nil {
		return shellResult{}, err
	}
	return shellResult{Output: s.describeKey(entry)}, nil
}

func (s *shell) importKey(secret string) (shellResult, error) {
	entry, err := s.kr.AddPrivateKey(secret)
	if err != nil {
		return shellResult{}, err
	}
	return shellResult{Output: s.describeKey(entry)}, nil
}

func (s *shell) list() shellResult {
	current, err := s.kr.CurrentIndex()
	if err != nil {
		current = -1
	}
	var b strings.Builder
	renderAccounts(&b, s.kr.PrivateKeyEntries(), current, s.cluster)
	return shellResult{Output: strings.TrimRight(b.String(), "\n")}
}

func (s *shell) use(arg string) (shellResult, error) {
	if arg == "" {
		if s.kr.Len() == 0 {
			return shellResult{}, wallet.ErrNoCurrentWallet
		}
		return shellResult{Pick: true}, nil
	}
	i, err := strconv.Atoi(arg)
	if err != nil {
		return shellResult{}, fmt.Errorf("%w: %q", wallet.ErrIndexOutOfRange, arg)
	}
	return s.selectAccount(i)
}

// selectAccount makes account i current.
func (s *shell) selectAccount(i int) (shellResult, error) {
	if err := s.kr.SetCurrentWalletAtIndex(i); err != nil {
		return shellResult{}, err
	}
	return s.current()
}

func (s *shell) current() (shellResult, error) {
	i, err := s.kr.CurrentIndex()
	if err != nil {
		return shellResult{}, err
	}
	entry, err := s.kr.PrivateKeyEntryAt(i)
	if err != nil {
		return shellResult{}, err
	}
	return shellResult{Output: fmt.Sprintf("Current account %d\n%s", i, s.describeKey(entry))}, nil
}

func (s *shell) export(arg string) (shellResult, error) {
	var (
		i   int
		err error
	)
	if arg == "" {
		i, err = s.kr.CurrentIndex()
	} else {
		i, err = strconv.Atoi(arg)
		if err != nil {
			err = fmt.Errorf("%w: %q", wallet.ErrIndexOutOfRange, arg)
		}
	}
	if err != nil {
		return shellResult{}, err
	}

	entry, err := s.kr.PrivateKeyEntryAt(i)
	if err != nil {
		return shellResult{}, err
	}
	secret, err := s.kr.PrivateKeyBase58(entry.ID)
	if err != nil {
		return shellResult{}, err
	}
	s.log.Warn("private key exported", zap.String("address", entry.Address))
	return shellResult{Output: fmt.Sprintf("%s\n%s", entry.Address, secret), Secret: true}, nil
}

func (s *shell) sign(arg string) (shellResult, error) {
	if arg == "" {
		return shellResult{}, fmt.Errorf("%w: usage /sign <base64 transaction>", wallet.ErrMalformedPayload)
	}
	signed, err := s.kr.SignTransaction(arg)
	if err != nil {
		return shellResult{}, err
	}
	return shellResult{Output: signed}, nil
}

func (s *shell) verify(arg string) (shellResult, error) {
	if arg == "" {
		return shellResult{}, fmt.Errorf("%w: usage /verify <base64 transaction>", wallet.ErrMalformedPayload)
	}
	report, err := wallet.VerifyTransaction(arg)
	if err != nil {
		return shellResult{}, err
	}
	var b strings.Builder
	renderReport(&b, report, s.cluster)
	return shellResult{Output: strings.TrimRight(b.String(), "\n")}, nil
}

// accountItems feeds the selector.
func (s *shell) accountItems() []ui.SelectorItem {
	current, err := s.kr.CurrentIndex()
	if err != nil {
		current = -1
	}
	return ui.AccountItems(s.kr.PrivateKeyEntries(), current)
}

func (s *shell) describeMnemonic(e wallet.MnemonicEntry) string {
	for _, k := range s.kr.PrivateKeyEntries() {
		if k.MnemonicID == e.ID && k.DerivationSlot == 0 {
			return fmt.Sprintf("Added %d-word mnemonic\n%s", e.WordCount, s.describeKey(k))
		}
	}
	return fmt.Sprintf("Added %d-word mnemonic", e.WordCount)
}

func (s *shell) describeKey(e wallet.PrivateKeyEntry) string {
	source := string(e.Source)
	if e.Derived() {
		source = e.DerivationPath
	}
	return fmt.Sprintf("%s  %s\n%s", e.Address, ui.SelectorDim.Render(source), s.cluster.AccountURL(e.Address))
}
