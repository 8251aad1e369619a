package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"worldpath-wallet/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is the session lifecycle state.
type State string

const (
	// StateUnregistered: no local registration, or the server disowned it.
	StateUnregistered State = "unregistered"
	// StateSyncing: registered locally and polling the server for status.
	StateSyncing State = "syncing"
	// StateLoggedOut: the holder explicitly logged out; local record cleared.
	StateLoggedOut State = "logged_out"
)

const (
	keyProfile = "session/profile"
	keyStatus  = "session/status"

	defaultNotFoundLimit = 3
)

// Config tunes the session behavior.
type Config struct {
	// PollInterval is the delay between completed status polls.
	PollInterval time.Duration
	// MinBalance is the paid-feature threshold mirrored from the server.
	MinBalance decimal.Decimal
	// NotFoundLimit is how many consecutive not-registered replies the
	// session tolerates before dropping its registration. Guards against a
	// single stale read tearing down a valid session.
	NotFoundLimit int
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	State      State
	WalletID   string
	Name       string
	Phone      string
	Status     *domain.WalletStatus
	LastSynced time.Time
}

type profileRecord struct {
	WalletID string `json:"wallet_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// Session is the client wallet session. All exported methods are safe for
// concurrent use.
type Session struct {
	api API
	db  Store
	cfg Config
	log zerolog.Logger

	mu             sync.Mutex
	state          State
	profile        profileRecord
	status         *domain.WalletStatus
	lastSynced     time.Time
	notFoundStreak int

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a session. Call Resume to load any persisted registration,
// then Start to begin polling.
func New(api API, db Store, cfg Config, log zerolog.Logger) *Session {
	if cfg.NotFoundLimit <= 0 {
		cfg.NotFoundLimit = defaultNotFoundLimit
	}
	return &Session{
		api:   api,
		db:    db,
		cfg:   cfg,
		log:   log.With().Str("component", "wallet_session").Logger(),
		state: StateUnregistered,
	}
}

// Resume loads the persisted registration, if any, and revalidates it with
// one sync. A transport failure keeps the stored registration and the last
// persisted status; only an explicit not-registered reply clears it.
func (s *Session) Resume(ctx context.Context) error {
	raw, err := s.db.Get(keyProfile)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	var p profileRecord
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = p
	s.state = StateSyncing
	s.loadPersistedStatusLocked()
	s.mu.Unlock()

	status, err := s.api.Sync(ctx, p.WalletID, p.Name, p.Phone)
	if errors.Is(err, ErrNotRegistered) {
		s.log.Warn().Str("wallet_id", p.WalletID).Msg("server disowned stored registration")
		return s.clear(StateUnregistered)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("resume sync failed, keeping stored registration")
		return nil
	}

	s.setStatus(status)
	return nil
}

// Register creates (or adopts) a wallet id and syncs the profile to the
// server. An empty walletID generates a fresh one.
func (s *Session) Register(ctx context.Context, walletID, name, phone string) (string, error) {
	if walletID == "" {
		var err error
		walletID, err = domain.NewWalletID()
		if err != nil {
			return "", err
		}
	}

	status, err := s.api.Sync(ctx, walletID, name, phone)
	if err != nil {
		return "", err
	}

	p := profileRecord{WalletID: walletID, Name: name, Phone: phone}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	if err := s.db.Set(keyProfile, raw); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.profile = p
	s.state = StateSyncing
	s.notFoundStreak = 0
	s.mu.Unlock()
	s.setStatus(status)

	s.log.Info().Str("wallet_id", walletID).Msg("registered")
	return walletID, nil
}

// Start launches the poll loop. Polls never overlap: the interval timer is
// re-armed only after the previous poll completes. Stop or ctx cancellation
// ends the loop.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.pollLoop(ctx)
}

// Stop halts the poll loop and waits for it to finish.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Logout stops polling and clears the local registration. The server-side
// wallet is untouched.
func (s *Session) Logout() error {
	s.Stop()
	return s.clear(StateLoggedOut)
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:      s.state,
		WalletID:   s.profile.WalletID,
		Name:       s.profile.Name,
		Phone:      s.profile.Phone,
		LastSynced: s.lastSynced,
	}
	if s.status != nil {
		st := *s.status
		snap.Status = &st
	}
	return snap
}

// CanSubmitBooking evaluates the paid-feature gate against the last synced
// status. This is a client-side hint only; the server re-checks on submit.
func (s *Session) CanSubmitBooking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSyncing || s.status == nil {
		return false
	}
	return domain.CanAccessPaidFeature(s.status.Authorized, s.status.Suspended, s.status.Balance, s.cfg.MinBalance)
}

func (s *Session) pollLoop(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.cfg.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.pollOnce(ctx)
		timer.Reset(s.cfg.PollInterval)
	}
}

func (s *Session) pollOnce(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateSyncing {
		s.mu.Unlock()
		return
	}
	walletID := s.profile.WalletID
	s.mu.Unlock()

	status, err := s.api.Status(ctx, walletID)
	switch {
	case err == nil:
		s.mu.Lock()
		s.notFoundStreak = 0
		s.mu.Unlock()
		s.setStatus(status)

	case errors.Is(err, ErrNotRegistered):
		s.mu.Lock()
		s.notFoundStreak++
		streak := s.notFoundStreak
		s.mu.Unlock()
		s.log.Warn().Str("wallet_id", walletID).Int("streak", streak).Msg("server reports wallet not registered")
		if streak >= s.cfg.NotFoundLimit {
			if clearErr := s.clear(StateUnregistered); clearErr != nil {
				s.log.Error().Err(clearErr).Msg("clearing disowned registration failed")
			}
		}

	default:
		// Transport fault: keep the last known status rather than zeroing it.
		s.log.Warn().Err(err).Str("wallet_id", walletID).Msg("status poll failed")
	}
}

func (s *Session) setStatus(status *domain.WalletStatus) {
	s.mu.Lock()
	s.status = status
	s.lastSynced = time.Now()
	s.mu.Unlock()

	if raw, err := json.Marshal(status); err == nil {
		if err := s.db.Set(keyStatus, raw); err != nil {
			s.log.Warn().Err(err).Msg("persisting status failed")
		}
	}
}

// loadPersistedStatusLocked restores the last synced status so the UI has
// something to show before the first poll lands. Caller holds s.mu.
func (s *Session) loadPersistedStatusLocked() {
	raw, err := s.db.Get(keyStatus)
	if err != nil || raw == nil {
		return
	}
	var status domain.WalletStatus
	if err := json.Unmarshal(raw, &status); err == nil {
		s.status = &status
	}
}

func (s *Session) clear(next State) error {
	s.mu.Lock()
	s.profile = profileRecord{}
	s.status = nil
	s.notFoundStreak = 0
	s.state = next
	s.mu.Unlock()

	if err := s.db.Delete(keyProfile); err != nil {
		return err
	}
	return s.db.Delete(keyStatus)
}
