package web

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymlogger/internal/entries"
	"github.com/2beens/gymlogger/internal/forms"
	"github.com/2beens/gymlogger/internal/identity"
	"github.com/2beens/gymlogger/internal/middleware"
	"github.com/2beens/gymlogger/internal/session"
	"github.com/2beens/gymlogger/internal/tracker"
	"github.com/2beens/gymlogger/pkg"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=web_test

type authService interface {
	SignIn(ctx context.Context, username, password string) error
	SignUp(ctx context.Context, email, password string) (identity.SignUpStep, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
	ResendSignUpCode(ctx context.Context, username string) error
	ResetPassword(ctx context.Context, username string) error
	ConfirmResetPassword(ctx context.Context, username, code, newPassword string) error
	SignOut(ctx context.Context) error
}

type sessionManager interface {
	State() session.State
	SetStatus(status session.Status) bool
}

type entriesTracker interface {
	Entries(kind entries.Kind) []entries.Entry
	LogWeightlifting(ctx context.Context, form *forms.WeightliftingForm) (string, error)
	LogBodyWeight(ctx context.Context, form *forms.BodyWeightForm) (string, error)
	LogCardio(ctx context.Context, form *forms.CardioForm) (string, error)
	RequestDelete(kind entries.Kind, id string) error
	PendingDelete() (tracker.PendingDelete, bool)
	CancelDelete()
	ConfirmDelete(ctx context.Context) (string, error)
}

type message struct {
	Text    string
	Success bool
}

type pageData struct {
	Title     string
	Tab       string
	CSRFField template.HTML
	SignedIn  bool
	User      session.User
	Message   *message
	Page      any
}

type tableData struct {
	Entries   []entries.Entry
	ShowType  bool
	ReturnTo  string
	CSRFField template.HTML
}

// App renders the pages and keeps what has to survive the redirect after
// a POST: form inputs and one message per page.
type App struct {
	auth      authService
	sessions  sessionManager
	tracker   entriesTracker
	templates *Templates

	signInLimiter       middleware.RequestRateLimiter
	signInAllowedPerMin int

	mutex         sync.Mutex
	generation    uint64
	messages      map[string]message
	authUsername  string
	resetCodeSent bool

	// held for the whole submission, the tracker clears inputs as it goes
	formsMutex      sync.Mutex
	formsGeneration uint64
	liftForms       map[string]*forms.WeightliftingForm
	bodyWeightForm  *forms.BodyWeightForm
	cardioForm      *forms.CardioForm

	NowFunc func() time.Time
}

func NewApp(
	auth authService,
	sessions sessionManager,
	tracker entriesTracker,
	templates *Templates,
) *App {
	return &App{
		auth:           auth,
		sessions:       sessions,
		tracker:        tracker,
		templates:      templates,
		messages:       map[string]message{},
		liftForms:      map[string]*forms.WeightliftingForm{},
		bodyWeightForm: &forms.BodyWeightForm{},
		cardioForm:     forms.NewCardioForm(),
		NowFunc:        time.Now,
	}
}

// WithSignInLimiter limits sign in attempts per remote host.
func (a *App) WithSignInLimiter(limiter middleware.RequestRateLimiter, allowedPerMin int) *App {
	a.signInLimiter = limiter
	a.signInAllowedPerMin = allowedPerMin
	return a
}

// OnSessionChange is the session manager observer. Inputs and messages
// of the previous user are dropped; the forms are rebuilt lazily since
// this can run while a submission holds formsMutex.
func (a *App) OnSessionChange(state session.State) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	// equal is a routing only change, lower is a late delivery from an older session
	if state.Generation <= a.generation {
		return
	}
	a.generation = state.Generation
	a.messages = map[string]message{}
	a.resetCodeSent = false
}

func (a *App) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", a.handleHealth).Methods("GET").Name("healthz")
	r.HandleFunc("/", a.handleIndex).Methods("GET").Name("index")

	r.HandleFunc("/auth/status", a.handleAuthStatus).Methods("POST").Name("auth-status")
	r.HandleFunc("/auth/sign-in", a.handleSignIn).Methods("POST").Name("sign-in")
	r.HandleFunc("/auth/sign-up", a.handleSignUp).Methods("POST").Name("sign-up")
	r.HandleFunc("/auth/confirm-sign-up", a.handleConfirmSignUp).Methods("POST").Name("confirm-sign-up")
	r.HandleFunc("/auth/resend-code", a.handleResendCode).Methods("POST").Name("resend-code")
	r.HandleFunc("/auth/forgot-password", a.handleForgotPassword).Methods("POST").Name("forgot-password")
	r.HandleFunc("/auth/reset-password", a.handleResetPassword).Methods("POST").Name("reset-password")
	r.HandleFunc("/auth/sign-out", a.handleSignOut).Methods("POST").Name("sign-out")

	r.HandleFunc("/weightlifting", a.requireSignedIn(a.handleCategories)).Methods("GET").Name("categories")
	r.HandleFunc("/weightlifting/{category}", a.requireSignedIn(a.handleWeightlifting)).Methods("GET").Name("weightlifting")
	r.HandleFunc("/weightlifting/{category}", a.requireSignedIn(a.handleLogWeightlifting)).Methods("POST").Name("log-weightlifting")
	r.HandleFunc("/body-weight", a.requireSignedIn(a.handleBodyWeight)).Methods("GET").Name("body-weight")
	r.HandleFunc("/body-weight", a.requireSignedIn(a.handleLogBodyWeight)).Methods("POST").Name("log-body-weight")
	r.HandleFunc("/cardio", a.requireSignedIn(a.handleCardio)).Methods("GET").Name("cardio")
	r.HandleFunc("/cardio", a.requireSignedIn(a.handleLogCardio)).Methods("POST").Name("log-cardio")

	r.HandleFunc("/history", a.requireSignedIn(a.handleHistory)).Methods("GET").Name("history")
	r.HandleFunc("/entries/{kind}/{id}/delete", a.requireSignedIn(a.handleRequestDelete)).Methods("POST").Name("request-delete")
	r.HandleFunc("/confirm-delete", a.requireSignedIn(a.handleConfirmDeletePage)).Methods("GET").Name("confirm-delete-page")
	r.HandleFunc("/confirm-delete", a.requireSignedIn(a.handleConfirmDelete)).Methods("POST").Name("confirm-delete")
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "OK")
}

func (a *App) requireSignedIn(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.sessions.State().SignedIn {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (a *App) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	state := a.sessions.State()
	data.CSRFField = csrf.TemplateField(r)
	data.SignedIn = state.SignedIn
	data.User = state.User
	data.Message = a.popMessage(r.URL.Path)

	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), http.StatusOK)
}

func (a *App) table(r *http.Request, list []entries.Entry, returnTo string) tableData {
	return tableData{
		Entries:   list,
		ReturnTo:  returnTo,
		CSRFField: csrf.TemplateField(r),
	}
}

// setMessage stores the message shown by the next render of path.
func (a *App) setMessage(path, text string, success bool) {
	if text == "" {
		return
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.messages[path] = message{Text: text, Success: success}
}

func (a *App) popMessage(path string) *message {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	m, ok := a.messages[path]
	if !ok {
		return nil
	}
	delete(a.messages, path)
	return &m
}

// lockForms hands out the forms of the current user, rebuilding them when
// the session changed since they were last used.
func (a *App) lockForms() func() {
	a.mutex.Lock()
	generation := a.generation
	a.mutex.Unlock()

	a.formsMutex.Lock()
	if generation != a.formsGeneration {
		a.formsGeneration = generation
		a.liftForms = map[string]*forms.WeightliftingForm{}
		a.bodyWeightForm = &forms.BodyWeightForm{}
		a.cardioForm = forms.NewCardioForm()
	}
	return a.formsMutex.Unlock
}

// liftForm must be called with formsMutex held.
func (a *App) liftForm(category string) *forms.WeightliftingForm {
	form, ok := a.liftForms[category]
	if !ok {
		form = forms.NewWeightliftingForm(category)
		a.liftForms[category] = form
	}
	return form
}

// safeReturnPath keeps redirects on this site; anything else goes back to
// the history page.
func safeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "/history"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/history"
	}
	return raw
}

// messageKey is the page a return path renders on.
func messageKey(returnTo string) string {
	u, err := url.Parse(returnTo)
	if err != nil {
		return returnTo
	}
	return u.Path
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
