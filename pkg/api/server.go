package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zil-bridge/pkg/bridge"
	"zil-bridge/pkg/types"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultTransferLimit   = 20
)

// Executor runs a bridge transfer
type Executor interface {
	Execute(ctx context.Context, req types.BridgeRequest) (*bridge.Outcome, error)
}

// TransferReader reads the transfer history of an account
type TransferReader interface {
	Transfers(ctx context.Context, account string, limit int) ([]types.TransferRecord, error)
}

// RequestBuilder turns an API request into a bridge request
type RequestBuilder func(req BridgeRequest) (types.BridgeRequest, error)

// BridgeRequest is the body of POST /api/v1/bridge
type BridgeRequest struct {
	Amount         string `json:"amount"`
	Token          string `json:"token"`
	WithdrawDenom  string `json:"withdraw_denom"`
	WithdrawAmount string `json:"withdraw_amount,omitempty"`
	DestAddress    string `json:"dest_address"`
	DestAccount    string `json:"dest_account"`
}

// ParseAmounts decodes the request amounts
func (r BridgeRequest) ParseAmounts() (amount, withdraw decimal.Decimal, err error) {
	amount, err = decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid amount %q", r.Amount)
	}
	if r.WithdrawAmount != "" {
		withdraw, err = decimal.NewFromString(r.WithdrawAmount)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("invalid withdraw amount %q", r.WithdrawAmount)
		}
	}
	return amount, withdraw, nil
}

// BridgeResponse is the result of POST /api/v1/bridge
type BridgeResponse struct {
	*bridge.Outcome
	Error string `json:"error,omitempty"`
}

// Deps are the handlers' collaborators
type Deps struct {
	Executor       Executor
	Transfers      TransferReader
	BuildRequest   RequestBuilder
	MetricsHandler http.Handler
	Logger         *zap.Logger
}

// NewRouter builds the HTTP routes
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/bridge", handleBridge(deps, logger))
		r.Get("/transfers/{account}", handleGetTransfers(deps.Transfers, logger))
	})

	return r
}

// NewHTTPServer wraps handler in a server with sane timeouts. Bridge runs
// poll for up to a minute per phase, so there is no write timeout.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: defaultReadTimeout,
		ReadTimeout:       defaultReadTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
}

func handleBridge(deps Deps, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body BridgeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"}, logger)
			return
		}

		req, err := deps.BuildRequest(body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()}, logger)
			return
		}

		// each request owns its run; a dropped client cancels it
		out, err := deps.Executor.Execute(r.Context(), req)
		if err != nil {
			logger.Error("Bridge run failed", zap.Error(err))
			writeJSON(w, statusForError(err), BridgeResponse{Outcome: out, Error: err.Error()}, logger)
			return
		}

		code := http.StatusOK
		if out.Status != bridge.StatusComplete {
			code = http.StatusAccepted
		}
		writeJSON(w, code, BridgeResponse{Outcome: out}, logger)
	}
}

func statusForError(err error) int {
	var subErr *bridge.SubmissionError
	if errors.As(err, &subErr) && subErr.Op == bridge.OpBuildLock {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func handleGetTransfers(reader TransferReader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")
		transfers, err := reader.Transfers(r.Context(), account, defaultTransferLimit)
		if err != nil {
			logger.Error("Failed to list transfers", zap.Error(err), zap.String("account", account))
			http.Error(w, "failed to list transfers", http.StatusBadGateway)
			return
		}
		if transfers == nil {
			transfers = []types.TransferRecord{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers}, logger)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// ServeAndWait starts srv and blocks until ctx is cancelled or the server
// fails, then shuts it down gracefully.
func ServeAndWait(ctx context.Context, logger *zap.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("HTTP server error", zap.Error(runErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("http server failed: %w", runErr)
	}

	logger.Info("HTTP server stopped")
	return nil
}
