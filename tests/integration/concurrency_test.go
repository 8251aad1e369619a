package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The balance mutation is a single conditional increment, so parallel
// injections must all land and sum exactly, with one ledger entry each.
func TestConcurrentBalanceInjections(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	created := app.request(t, http.MethodPost, "/api/v1/admin/users", token, map[string]any{
		"name":  "Fatou Camara",
		"phone": "+224621111111",
	})
	require.Equal(t, http.StatusCreated, created.status)
	walletID := created.data(t)["walletId"].(string)

	const workers = 50

	var wg sync.WaitGroup
	errs := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := app.request(t, http.MethodPost, "/api/v1/admin/update-balance", token, map[string]any{
				"walletId": walletID,
				"amount":   "10.00",
			})
			if resp.status != http.StatusOK {
				errs <- resp.status
			}
		}()
	}
	wg.Wait()
	close(errs)
	for status := range errs {
		t.Fatalf("injection failed with status %d", status)
	}

	status := app.request(t, http.MethodGet, "/api/v1/wallet/status/"+walletID, "", nil)
	require.Equal(t, http.StatusOK, status.status)
	assert.Equal(t, "500.00", status.data(t)["balance"])

	ledger := app.request(t, http.MethodGet, "/api/v1/admin/users/"+walletID+"/ledger", token, nil)
	require.Equal(t, http.StatusOK, ledger.status)
	entries, ok := ledger.body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, workers)
}

// Concurrent overdraw attempts against a small balance: exactly the affordable
// number of debits succeed, and the balance never goes negative.
func TestConcurrentOverdrawAttempts(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	created := app.request(t, http.MethodPost, "/api/v1/admin/users", token, map[string]any{
		"name":    "Fatou Camara",
		"phone":   "+224621111111",
		"balance": "30.00",
	})
	require.Equal(t, http.StatusCreated, created.status)
	walletID := created.data(t)["walletId"].(string)

	const workers = 10

	var wg sync.WaitGroup
	statuses := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := app.request(t, http.MethodPost, "/api/v1/admin/update-balance", token, map[string]any{
				"walletId": walletID,
				"amount":   "-10.00",
			})
			statuses <- resp.status
		}()
	}
	wg.Wait()
	close(statuses)

	var succeeded, rejected int
	for s := range statuses {
		switch s {
		case http.StatusOK:
			succeeded++
		case http.StatusUnprocessableEntity:
			rejected++
		default:
			t.Fatalf("unexpected status %d", s)
		}
	}
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, workers-3, rejected)

	status := app.request(t, http.MethodGet, "/api/v1/wallet/status/"+walletID, "", nil)
	require.Equal(t, http.StatusOK, status.status)
	assert.Equal(t, "0.00", status.data(t)["balance"])
}
