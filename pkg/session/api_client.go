// Package session implements the client-side wallet session: a durable
// registration record plus a polling loop that mirrors the server's redacted
// wallet status. The server row stays the source of truth; everything here
// is a cached view with explicit revalidation.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"worldpath-wallet/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrNotRegistered signals the server has no wallet for this id. Distinct
// from transport errors: the caller drops its registration on this, never on
// a network fault.
var ErrNotRegistered = errors.New("wallet not registered on server")

// API is the subset of the wallet service the session consumes.
type API interface {
	Sync(ctx context.Context, walletID, name, phone string) (*domain.WalletStatus, error)
	Status(ctx context.Context, walletID string) (*domain.WalletStatus, error)
}

// APIClient talks to the wallet service REST API.
type APIClient struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewAPIClient creates a client for the wallet service at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration, log zerolog.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "wallet_api_client").Logger(),
	}
}

type statusPayload struct {
	Authorized bool   `json:"authorized"`
	Suspended  bool   `json:"suspended"`
	Balance    string `json:"balance"`
}

type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
}

// Sync upserts the profile on the server and returns the resulting status.
func (c *APIClient) Sync(ctx context.Context, walletID, name, phone string) (*domain.WalletStatus, error) {
	body, err := json.Marshal(map[string]string{
		"walletId": walletID,
		"name":     name,
		"phone":    phone,
	})
	if err != nil {
		return nil, err
	}
	return c.doStatus(ctx, http.MethodPost, "/api/v1/wallet/sync", bytes.NewReader(body))
}

// Status fetches the redacted wallet status.
func (c *APIClient) Status(ctx context.Context, walletID string) (*domain.WalletStatus, error) {
	return c.doStatus(ctx, http.MethodGet, "/api/v1/wallet/status/"+walletID, nil)
}

func (c *APIClient) doStatus(ctx context.Context, method, path string, body io.Reader) (*domain.WalletStatus, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallet service unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotRegistered
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallet service error %s: %s (status %d)", env.ErrorCode, env.Message, resp.StatusCode)
	}

	var payload statusPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("decoding status payload: %w", err)
	}
	balance, err := decimal.NewFromString(payload.Balance)
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", payload.Balance, err)
	}

	return &domain.WalletStatus{
		Authorized: payload.Authorized,
		Suspended:  payload.Suspended,
		Balance:    balance,
	}, nil
}
