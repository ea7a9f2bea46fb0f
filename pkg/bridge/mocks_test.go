package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"zil-bridge/pkg/asset"
	"zil-bridge/pkg/gateway"
	"zil-bridge/pkg/types"
)

const (
	testSigner      = "e19d05c5452598e24caad4a0d85a49146f7be089515c905ae6a19e8a578a6930"
	testOtherKey    = "0000000000000000000000000000000000000000000000000000000000000001"
	testDestAddress = "a476fcedc061797fa2a6f80bd9e020a056904298"
)

type mockHandle struct {
	id        string
	confirmFn func(ctx context.Context) (*types.Receipt, error)
}

func (h *mockHandle) ID() string {
	return h.id
}

func (h *mockHandle) Confirm(ctx context.Context) (*types.Receipt, error) {
	if h.confirmFn != nil {
		return h.confirmFn(ctx)
	}
	return &types.Receipt{Success: true}, nil
}

type mockLocker struct {
	submitLockFn func(ctx context.Context, params types.LockParams) (gateway.TxHandle, error)
	calls        int
	params       types.LockParams
}

func (m *mockLocker) SubmitLock(ctx context.Context, params types.LockParams) (gateway.TxHandle, error) {
	m.calls++
	m.params = params
	if m.submitLockFn != nil {
		return m.submitLockFn(ctx, params)
	}
	return &mockHandle{id: "lock-tx-1"}, nil
}

type mockSession string

func (s mockSession) Originator() string {
	return string(s)
}

type mockAuthenticator struct {
	connectFn func(ctx context.Context) (gateway.Session, error)
	calls     int
}

func (m *mockAuthenticator) Connect(ctx context.Context) (gateway.Session, error) {
	m.calls++
	if m.connectFn != nil {
		return m.connectFn(ctx)
	}
	return mockSession("swth1originator"), nil
}

type mockWithdrawer struct {
	submitWithdrawFn func(ctx context.Context, req types.WithdrawRequest, session gateway.Session) (*types.WithdrawResponse, error)
	calls            int
	req              types.WithdrawRequest
}

func (m *mockWithdrawer) SubmitWithdraw(ctx context.Context, req types.WithdrawRequest, session gateway.Session) (*types.WithdrawResponse, error) {
	m.calls++
	m.req = req
	if m.submitWithdrawFn != nil {
		return m.submitWithdrawFn(ctx, req, session)
	}
	return &types.WithdrawResponse{
		TxHash: "withdraw-tx-1",
		Logs:   []types.WithdrawLog{{MsgIndex: 0, Log: DefaultWithdrawSuccessLog}},
	}, nil
}

// mockObserver passes the 1-based call number to latestTransferFn
type mockObserver struct {
	latestTransferFn func(ctx context.Context, call int, account string) (*types.TransferRecord, error)
	calls            int
}

func (m *mockObserver) LatestTransfer(ctx context.Context, account string) (*types.TransferRecord, error) {
	m.calls++
	return m.latestTransferFn(ctx, m.calls, account)
}

type notification struct {
	message string
	details Details
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *recordingNotifier) Notify(message string, details Details) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{message: message, details: details})
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.calls))
	for _, c := range n.calls {
		out = append(out, c.message)
	}
	return out
}

type countingSleeper struct {
	calls     int
	durations []time.Duration
}

func (s *countingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.calls++
	s.durations = append(s.durations, d)
	return ctx.Err()
}

type recordingRecorder struct {
	started  int
	statuses []string
	polls    map[string]int
}

func (r *recordingRecorder) RunStarted() {
	r.started++
}

func (r *recordingRecorder) RunFinished(status string, _ time.Duration) {
	r.statuses = append(r.statuses, status)
}

func (r *recordingRecorder) PollAttempt(phase, result string) {
	if r.polls == nil {
		r.polls = map[string]int{}
	}
	r.polls[phase+"/"+result]++
}

func testDestAccount(t *testing.T) string {
	t.Helper()
	priv, err := gateway.ParsePrivateKey(testOtherKey)
	require.NoError(t, err)
	addr, err := gateway.SWTHAddressFromPubKey(priv.PubKey())
	require.NoError(t, err)
	return addr
}

func testRequest(t *testing.T) types.BridgeRequest {
	t.Helper()
	return types.BridgeRequest{
		Signer:        testSigner,
		DestAddress:   testDestAddress,
		DestAccount:   testDestAccount(t),
		Amount:        decimal.NewFromInt(1),
		Asset:         asset.NativeZIL(),
		WithdrawDenom: "zusd6",
	}
}

func testConfig() Config {
	return Config{
		SourceBlockchain: "zil",
		GasPrice:         decimal.NewFromInt(2000000000),
		GasLimit:         25000,
		FeeAddress:       "swth1prv0t8j8tqcdngdmjlt59pwy6dxxmtqgycy2h7",
		FeeAmount:        "1",
	}
}

func depositRecord() *types.TransferRecord {
	return &types.TransferRecord{
		ID:              "dep-1",
		TransferType:    types.TransferTypeDeposit,
		Blockchain:      "zil",
		ContractHash:    asset.DefaultZILLockProxyHash,
		Denom:           "zil",
		Status:          "success",
		Amount:          "1",
		TransactionHash: "lock-tx-1",
	}
}

func withdrawalRecord() *types.TransferRecord {
	return &types.TransferRecord{
		ID:           "wd-1",
		TransferType: types.TransferTypeWithdrawal,
		Blockchain:   "zil",
		Denom:        "zusd6",
		Status:       "confirming",
		Amount:       "1",
	}
}

type harness struct {
	locker     *mockLocker
	auth       *mockAuthenticator
	withdrawer *mockWithdrawer
	observer   *mockObserver
	notifier   *recordingNotifier
	sleeper    *countingSleeper
	recorder   *recordingRecorder
}

func newHarness(observe func(ctx context.Context, call int, account string) (*types.TransferRecord, error)) *harness {
	return &harness{
		locker:     &mockLocker{},
		auth:       &mockAuthenticator{},
		withdrawer: &mockWithdrawer{},
		observer:   &mockObserver{latestTransferFn: observe},
		notifier:   &recordingNotifier{},
		sleeper:    &countingSleeper{},
		recorder:   &recordingRecorder{},
	}
}

func (h *harness) orchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	base := []Option{WithNotifier(h.notifier), WithSleeper(h.sleeper), WithRecorder(h.recorder)}
	o, err := New(Dependencies{
		Locker:        h.locker,
		Authenticator: h.auth,
		Withdrawer:    h.withdrawer,
		Observer:      h.observer,
	}, testConfig(), append(base, opts...)...)
	require.NoError(t, err)
	return o
}
