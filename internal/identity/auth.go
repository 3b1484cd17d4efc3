package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymlogger/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// tokens this close to expiry are refreshed before use
const refreshMargin = time.Minute

type SignUpStep string

const (
	SignUpStepConfirm SignUpStep = "CONFIRM_SIGN_UP"
	SignUpStepDone    SignUpStep = "DONE"
)

type authProvider interface {
	InitiateAuth(ctx context.Context, username, password string) (*Tokens, error)
	RefreshAuth(ctx context.Context, refreshToken string) (*Tokens, error)
	SignUp(ctx context.Context, params SignUpParams) (*SignUpResult, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
	ResendConfirmationCode(ctx context.Context, username string) error
	ForgotPassword(ctx context.Context, username string) error
	ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) error
	GlobalSignOut(ctx context.Context, accessToken string) error
}

type credentials struct {
	username string
	password string
}

// Auth is the sign in / sign up flow on top of the provider. It keeps the
// tokens in a TokenStore and reports every transition on the Hub.
type Auth struct {
	provider authProvider
	store    TokenStore
	hub      *Hub

	mutex         sync.Mutex
	pendingSignUp *credentials

	now           func() time.Time
	NewUserIDFunc func() string
}

func NewAuth(provider authProvider, store TokenStore, hub *Hub) *Auth {
	return &Auth{
		provider:      provider,
		store:         store,
		hub:           hub,
		now:           time.Now,
		NewUserIDFunc: uuid.NewString,
	}
}

func (a *Auth) SignIn(ctx context.Context, username, password string) error {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return &Error{Code: "InvalidParameterException", Message: "Username and password are required."}
	}

	tokens, err := a.provider.InitiateAuth(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, tokens); err != nil {
		return err
	}

	a.hub.Dispatch(EventSignedIn)
	return nil
}

// SignUp registers a new user under a freshly generated user id. The
// credentials are remembered so that a later confirmation signs the user
// in automatically.
func (a *Auth) SignUp(ctx context.Context, email, password string) (SignUpStep, error) {
	email = normalizeUsername(email)
	res, err := a.provider.SignUp(ctx, SignUpParams{
		Username: email,
		Password: password,
		Attributes: map[string]string{
			AttrEmail:  email,
			AttrUserID: a.NewUserIDFunc(),
		},
	})
	if err != nil {
		return "", err
	}

	a.mutex.Lock()
	a.pendingSignUp = &credentials{username: email, password: password}
	a.mutex.Unlock()

	a.hub.Dispatch(EventSignedUp)

	if res.UserConfirmed {
		a.autoSignIn(ctx, email)
		return SignUpStepDone, nil
	}
	return SignUpStepConfirm, nil
}

func (a *Auth) ConfirmSignUp(ctx context.Context, username, code string) error {
	username = normalizeUsername(username)
	if err := a.provider.ConfirmSignUp(ctx, username, strings.TrimSpace(code)); err != nil {
		return err
	}
	a.autoSignIn(ctx, username)
	return nil
}

// autoSignIn failures are reported through the hub only, the sign up itself
// already succeeded.
func (a *Auth) autoSignIn(ctx context.Context, username string) {
	a.mutex.Lock()
	creds := a.pendingSignUp
	if creds != nil && creds.username == username {
		a.pendingSignUp = nil
	} else {
		creds = nil
	}
	a.mutex.Unlock()

	if creds == nil {
		log.Debugf("auto sign in: %s", ErrNoPendingSignUp)
		return
	}

	tokens, err := a.provider.InitiateAuth(ctx, creds.username, creds.password)
	if err == nil {
		err = a.store.Save(ctx, tokens)
	}
	if err != nil {
		log.Warnf("auto sign in for %s failed: %s", username, err)
		a.hub.Dispatch(EventAutoSignInFailure)
		return
	}

	a.hub.Dispatch(EventAutoSignIn)
}

func (a *Auth) ResendSignUpCode(ctx context.Context, username string) error {
	return a.provider.ResendConfirmationCode(ctx, normalizeUsername(username))
}

func (a *Auth) ResetPassword(ctx context.Context, username string) error {
	return a.provider.ForgotPassword(ctx, normalizeUsername(username))
}

func (a *Auth) ConfirmResetPassword(ctx context.Context, username, code, newPassword string) error {
	return a.provider.ConfirmForgotPassword(ctx, normalizeUsername(username), strings.TrimSpace(code), newPassword)
}

// SignOut revokes the tokens at the provider when possible and always
// forgets them locally.
func (a *Auth) SignOut(ctx context.Context) error {
	a.mutex.Lock()
	tokens, err := a.store.Load(ctx)
	if err == nil {
		if err := a.provider.GlobalSignOut(ctx, tokens.AccessToken); err != nil {
			log.Warnf("global sign out: %s", err)
		}
	} else if !errors.Is(err, ErrNoSession) {
		log.Warnf("sign out, load tokens: %s", err)
	}
	clearErr := a.store.Clear(ctx)
	a.mutex.Unlock()

	a.hub.Dispatch(EventSignedOut)
	return clearErr
}

// FetchSession returns the current tokens, refreshing them when they are
// about to expire. A failed refresh ends the session.
func (a *Auth) FetchSession(ctx context.Context) (*Tokens, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.fetchSession")
	defer span.End()

	tokens, event, err := a.fetchSession(ctx)
	if event != "" {
		a.hub.Dispatch(event)
	}
	return tokens, err
}

func (a *Auth) fetchSession(ctx context.Context) (*Tokens, Event, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	tokens, err := a.store.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	if a.now().Add(refreshMargin).Before(tokens.ExpiresAt) {
		return tokens, "", nil
	}

	if tokens.RefreshToken == "" {
		if err := a.store.Clear(ctx); err != nil {
			log.Warnf("clear expired tokens: %s", err)
		}
		return nil, EventTokenRefreshFailed, ErrNoSession
	}

	refreshed, err := a.provider.RefreshAuth(ctx, tokens.RefreshToken)
	if err == nil {
		err = a.store.Save(ctx, refreshed)
	}
	if err != nil {
		log.Warnf("token refresh failed: %s", err)
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			log.Warnf("clear tokens after failed refresh: %s", clearErr)
		}
		return nil, EventTokenRefreshFailed, fmt.Errorf("%w: %s", ErrNoSession, err)
	}

	return refreshed, EventTokenRefresh, nil
}

// AccessToken makes Auth usable as the token source of the entries client.
func (a *Auth) AccessToken(ctx context.Context) (string, error) {
	tokens, err := a.FetchSession(ctx)
	if err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
