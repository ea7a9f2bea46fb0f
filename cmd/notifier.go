package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"zil-bridge/pkg/bridge"
)

// next step shown on the spinner after each milestone
var spinnerSuffixes = map[string]string{
	bridge.MsgSubmitted:              " Waiting for Zilliqa confirmation...",
	bridge.MsgDepositConfirmedSource: " Waiting for TradeHub deposit...",
	bridge.MsgDepositConfirmedDest:   " Submitting withdrawal...",
}

// terminalNotifier prints milestones in colour and keeps a spinner running between them
type terminalNotifier struct {
	mu sync.Mutex
	s  *spinner.Spinner
}

func newTerminalNotifier() *terminalNotifier {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Submitting lock transaction..."
	return &terminalNotifier{s: s}
}

func (n *terminalNotifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.s.Start()
}

func (n *terminalNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.s.Stop()
}

// Notify implements bridge.Notifier
func (n *terminalNotifier) Notify(message string, details bridge.Details) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.s.Stop()

	line := message
	if details.Hash != "" {
		line = fmt.Sprintf("%s  %s", message, color.HiBlackString(details.Hash))
	}
	switch message {
	case bridge.MsgDepositNotObserved, bridge.MsgWithdrawalNotConfirmed:
		color.Yellow("! %s", line)
	case bridge.MsgBridgeCancelled:
		color.Red("✗ %s", line)
	default:
		color.Green("✓ %s", line)
	}

	if suffix, ok := spinnerSuffixes[message]; ok {
		n.s.Suffix = suffix
		n.s.Start()
	}
}
