package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"worldpath-wallet/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu         sync.Mutex
	syncStatus *domain.WalletStatus
	syncErr    error
	status     *domain.WalletStatus
	statusErr  error
	statusCall int
}

func (f *fakeAPI) Sync(_ context.Context, _, _, _ string) (*domain.WalletStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	return f.syncStatus, nil
}

func (f *fakeAPI) Status(_ context.Context, _ string) (*domain.WalletStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCall++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeAPI) set(status *domain.WalletStatus, err error) {
	f.mu.Lock()
	f.status = status
	f.statusErr = err
	f.mu.Unlock()
}

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testConfig() Config {
	return Config{
		PollInterval:  10 * time.Millisecond,
		MinBalance:    decimal.RequireFromString("1000.00"),
		NotFoundLimit: 3,
	}
}

func authorizedStatus(balance string) *domain.WalletStatus {
	return &domain.WalletStatus{Authorized: true, Balance: decimal.RequireFromString(balance)}
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	missing, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Set("k", []byte("v")))
	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, store.Delete("k"))
	got, err = store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSession_Register_PersistsProfile(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("0.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())

	walletID, err := sess.Register(context.Background(), "", "Amadou Diallo", "+224620000001")

	require.NoError(t, err)
	assert.True(t, domain.ValidWalletID(walletID))

	snap := sess.Snapshot()
	assert.Equal(t, StateSyncing, snap.State)
	assert.Equal(t, walletID, snap.WalletID)
	require.NotNil(t, snap.Status)
}

func TestSession_Resume_RestoresAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{syncStatus: authorizedStatus("1500.00")}

	store, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	sess := New(api, store, testConfig(), zerolog.Nop())
	walletID, err := sess.Register(context.Background(), "", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Simulated restart: fresh store handle, fresh session.
	store2, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	defer store2.Close()
	sess2 := New(api, store2, testConfig(), zerolog.Nop())
	require.NoError(t, sess2.Resume(context.Background()))

	snap := sess2.Snapshot()
	assert.Equal(t, StateSyncing, snap.State)
	assert.Equal(t, walletID, snap.WalletID)
}

func TestSession_Resume_TransportFaultKeepsRegistration(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	okAPI := &fakeAPI{syncStatus: authorizedStatus("1500.00")}
	sess := New(okAPI, store, testConfig(), zerolog.Nop())
	_, err = sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store2, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	defer store2.Close()
	downAPI := &fakeAPI{syncErr: errors.New("connection refused")}
	sess2 := New(downAPI, store2, testConfig(), zerolog.Nop())
	require.NoError(t, sess2.Resume(context.Background()))

	snap := sess2.Snapshot()
	assert.Equal(t, StateSyncing, snap.State)
	assert.Equal(t, "WP-ABC234", snap.WalletID)
	// Last persisted status survives the offline restart.
	require.NotNil(t, snap.Status)
	assert.True(t, snap.Status.Balance.Equal(decimal.RequireFromString("1500.00")))
}

func TestSession_Resume_ServerDisownedClears(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	okAPI := &fakeAPI{syncStatus: authorizedStatus("0.00")}
	sess := New(okAPI, store, testConfig(), zerolog.Nop())
	_, err = sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store2, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	defer store2.Close()
	disownAPI := &fakeAPI{syncErr: ErrNotRegistered}
	sess2 := New(disownAPI, store2, testConfig(), zerolog.Nop())
	require.NoError(t, sess2.Resume(context.Background()))

	snap := sess2.Snapshot()
	assert.Equal(t, StateUnregistered, snap.State)
	assert.Empty(t, snap.WalletID)
}

func TestSession_Poll_UpdatesStatus(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("0.00"), status: authorizedStatus("0.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())
	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)

	sess.Start(context.Background())
	defer sess.Stop()

	api.set(authorizedStatus("2000.00"), nil)

	assert.Eventually(t, func() bool {
		snap := sess.Snapshot()
		return snap.Status != nil && snap.Status.Balance.Equal(decimal.RequireFromString("2000.00"))
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSession_Poll_NotFoundStreakClearsRegistration(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("0.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())
	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)

	api.set(nil, ErrNotRegistered)
	sess.Start(context.Background())
	defer sess.Stop()

	assert.Eventually(t, func() bool {
		return sess.Snapshot().State == StateUnregistered
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSession_Poll_SingleNotFoundDoesNotClear(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("1500.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())
	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)

	// One not-registered reply, then healthy again.
	api.set(nil, ErrNotRegistered)
	sess.pollOnce(context.Background())
	api.set(authorizedStatus("1500.00"), nil)
	sess.pollOnce(context.Background())

	assert.Equal(t, StateSyncing, sess.Snapshot().State)
}

func TestSession_Poll_TransportFaultKeepsLastStatus(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("1500.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())
	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)

	api.set(nil, errors.New("connection refused"))
	sess.pollOnce(context.Background())

	snap := sess.Snapshot()
	require.NotNil(t, snap.Status)
	assert.True(t, snap.Status.Balance.Equal(decimal.RequireFromString("1500.00")))
}

func TestSession_Logout_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("1500.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())
	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)

	require.NoError(t, sess.Logout())

	snap := sess.Snapshot()
	assert.Equal(t, StateLoggedOut, snap.State)
	assert.Empty(t, snap.WalletID)
	assert.Nil(t, snap.Status)

	raw, err := store.Get("session/profile")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSession_Logout_StopsPolling(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("1500.00"), status: authorizedStatus("1500.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())
	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)

	sess.Start(context.Background())
	assert.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.statusCall > 0
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sess.Logout())
	api.mu.Lock()
	after := api.statusCall
	api.mu.Unlock()

	// A handful of intervals pass with no further polls.
	time.Sleep(100 * time.Millisecond)
	api.mu.Lock()
	assert.Equal(t, after, api.statusCall)
	api.mu.Unlock()
}

func TestSession_CanSubmitBooking(t *testing.T) {
	store := newTestStore(t)
	api := &fakeAPI{syncStatus: authorizedStatus("1000.00")}
	sess := New(api, store, testConfig(), zerolog.Nop())

	// Unregistered: never.
	assert.False(t, sess.CanSubmitBooking())

	_, err := sess.Register(context.Background(), "WP-ABC234", "Amadou Diallo", "+224620000001")
	require.NoError(t, err)
	assert.True(t, sess.CanSubmitBooking(), "at exact threshold")

	api.set(authorizedStatus("999.99"), nil)
	sess.pollOnce(context.Background())
	assert.False(t, sess.CanSubmitBooking(), "below threshold")

	suspended := authorizedStatus("5000.00")
	suspended.Suspended = true
	api.set(suspended, nil)
	sess.pollOnce(context.Background())
	assert.False(t, sess.CanSubmitBooking(), "suspension overrides balance")
}
