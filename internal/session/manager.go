package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/2beens/gymlogger/internal/identity"

	log "github.com/sirupsen/logrus"
)

type Status string

const (
	StatusLoading        Status = "loading"
	StatusSignedIn       Status = "signedIn"
	StatusSignedOut      Status = "signedOut"
	StatusSignUp         Status = "signUp"
	StatusConfirmSignUp  Status = "confirmSignUp"
	StatusForgotPassword Status = "forgotPassword"
)

// IsRouting reports whether s only selects which auth page is shown.
func (s Status) IsRouting() bool {
	switch s {
	case StatusSignedOut, StatusSignUp, StatusConfirmSignUp, StatusForgotPassword:
		return true
	}
	return false
}

type User struct {
	ID       string
	Username string
}

type State struct {
	SignedIn   bool
	User       User
	Status     Status
	Generation uint64
}

type sessionFetcher interface {
	FetchSession(ctx context.Context) (*identity.Tokens, error)
}

type eventSource interface {
	Listen(fn func(identity.Event)) func()
}

// Manager tracks who is signed in. It reacts to identity events and tells
// its subscribers about every state change.
type Manager struct {
	fetcher sessionFetcher
	events  eventSource

	mutex       sync.Mutex
	state       State
	observers   []func(State)
	unsubscribe func()
	// guards against an older fetch overwriting a newer one
	fetchSeq uint64
}

func NewManager(fetcher sessionFetcher, events eventSource) *Manager {
	return &Manager{
		fetcher: fetcher,
		events:  events,
		state:   State{Status: StatusLoading},
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.refresh(ctx)

	unsubscribe := m.events.Listen(func(e identity.Event) {
		m.handleEvent(context.WithoutCancel(ctx), e)
	})

	m.mutex.Lock()
	m.unsubscribe = unsubscribe
	m.mutex.Unlock()
}

func (m *Manager) Stop() {
	m.mutex.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mutex.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *Manager) handleEvent(ctx context.Context, e identity.Event) {
	log.Debugf("session: auth event %s", e)
	switch e {
	case identity.EventSignedIn,
		identity.EventAutoSignIn,
		identity.EventAutoSignInFailure,
		identity.EventTokenRefresh,
		identity.EventTokenRefreshFailed:
		m.refresh(ctx)
	case identity.EventSignedOut:
		m.setSignedOut()
	case identity.EventSignedUp:
	default:
		log.Warnf("session: unknown auth event %s", e)
	}
}

// refresh queries the current session and updates the state from it. Any
// failure is treated as no session.
func (m *Manager) refresh(ctx context.Context) {
	m.mutex.Lock()
	m.fetchSeq++
	seq := m.fetchSeq
	m.mutex.Unlock()

	user, err := m.resolveUser(ctx)

	m.mutex.Lock()
	if seq != m.fetchSeq {
		m.mutex.Unlock()
		return
	}
	var changed bool
	if err != nil {
		if !errors.Is(err, identity.ErrNoSession) {
			log.Warnf("session: fetch session: %s", err)
		}
		changed = m.applySignedOut()
	} else {
		changed = m.applySignedIn(user)
	}
	state, observers := m.state, m.observersCopy()
	m.mutex.Unlock()

	if changed {
		notify(observers, state)
	}
}

func (m *Manager) resolveUser(ctx context.Context) (User, error) {
	tokens, err := m.fetcher.FetchSession(ctx)
	if err != nil {
		return User{}, err
	}
	if tokens == nil || tokens.AccessToken == "" {
		return User{}, identity.ErrNoSession
	}

	claims, err := identity.ParseIDTokenClaims(tokens.IDToken)
	if err != nil {
		return User{}, err
	}
	user := User{ID: claims.UserID(), Username: claims.Username()}
	if user.ID == "" {
		return User{}, errors.New("id token carries no user id")
	}
	return user, nil
}

func (m *Manager) setSignedOut() {
	m.mutex.Lock()
	m.fetchSeq++
	changed := m.applySignedOut()
	state, observers := m.state, m.observersCopy()
	m.mutex.Unlock()

	if changed {
		notify(observers, state)
	}
}

func (m *Manager) applySignedIn(user User) bool {
	prev := m.state
	if prev.SignedIn && prev.User == user {
		return false
	}
	m.state = State{
		SignedIn:   true,
		User:       user,
		Status:     StatusSignedIn,
		Generation: prev.Generation + 1,
	}
	return true
}

func (m *Manager) applySignedOut() bool {
	prev := m.state
	if !prev.SignedIn {
		if prev.Status == StatusLoading {
			m.state.Status = StatusSignedOut
			return true
		}
		return false
	}
	m.state = State{
		Status:     StatusSignedOut,
		Generation: prev.Generation + 1,
	}
	return true
}

func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

// SetStatus switches between the auth pages. It is ignored while a user is
// signed in.
func (m *Manager) SetStatus(status Status) bool {
	if !status.IsRouting() {
		return false
	}

	m.mutex.Lock()
	if m.state.SignedIn || m.state.Status == StatusLoading {
		m.mutex.Unlock()
		return false
	}
	changed := m.state.Status != status
	m.state.Status = status
	state, observers := m.state, m.observersCopy()
	m.mutex.Unlock()

	if changed {
		notify(observers, state)
	}
	return true
}

// Subscribe registers fn for state changes. fn is called outside the
// manager lock and may call back into the manager. Concurrent changes can
// reach fn out of order, so fn must ignore a state whose Generation is
// lower than the newest one it has seen.
func (m *Manager) Subscribe(fn func(State)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) observersCopy() []func(State) {
	return slices.Clone(m.observers)
}

func notify(observers []func(State), state State) {
	for _, fn := range observers {
		fn(state)
	}
}
