package bridge

import "go.uber.org/zap"

// Progress messages
const (
	MsgSubmitted              = "Submitted"
	MsgDepositConfirmedSource = "Deposit confirmed (source chain)"
	MsgDepositConfirmedDest   = "Deposit confirmed (destination ledger)"
	MsgWithdrawalConfirmed    = "Withdrawal confirmed"
	MsgDepositNotObserved     = "Deposit not observed"
	MsgWithdrawalNotConfirmed = "Withdrawal not confirmed"
	MsgBridgeCancelled        = "Bridge cancelled"
)

// Details carries optional context for a progress message
type Details struct {
	Hash string
}

// Notifier receives progress messages. Calls are fire-and-forget.
type Notifier interface {
	Notify(message string, details Details)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string, details Details)

// Notify implements Notifier
func (f NotifierFunc) Notify(message string, details Details) {
	f(message, details)
}

// LogNotifier writes progress messages to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs at info level
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(message string, details Details) {
	fields := []zap.Field{zap.String("message", message)}
	if details.Hash != "" {
		fields = append(fields, zap.String("hash", details.Hash))
	}
	n.logger.Info("Bridge progress", fields...)
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(message string, details Details) {
	for _, n := range m {
		n.Notify(message, details)
	}
}

// MultiNotifier fans a message out to every notifier
func MultiNotifier(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}
