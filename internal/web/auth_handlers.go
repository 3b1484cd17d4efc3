package web

import (
	"fmt"
	"net/http"

	"github.com/2beens/gymlogger/internal/identity"
	"github.com/2beens/gymlogger/internal/session"
	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/internal/tracker"
	"github.com/2beens/gymlogger/pkg"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type authPage struct {
	Username string
	CodeSent bool
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := a.sessions.State()
	if state.SignedIn {
		a.render(w, r, "dashboard.html", pageData{Title: "Dashboard", Tab: "dashboard"})
		return
	}

	a.mutex.Lock()
	page := authPage{Username: a.authUsername, CodeSent: a.resetCodeSent}
	a.mutex.Unlock()

	switch state.Status {
	case session.StatusLoading:
		a.render(w, r, "loading.html", pageData{Title: "Loading"})
	case session.StatusSignUp:
		a.render(w, r, "sign_up.html", pageData{Title: "Sign Up", Page: page})
	case session.StatusConfirmSignUp:
		a.render(w, r, "confirm_sign_up.html", pageData{Title: "Confirm Sign Up", Page: page})
	case session.StatusForgotPassword:
		a.render(w, r, "forgot_password.html", pageData{Title: "Reset Password", Page: page})
	default:
		a.render(w, r, "sign_in.html", pageData{Title: "Sign In", Page: page})
	}
}

func (a *App) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	status := session.Status(r.PostFormValue("status"))
	if !a.sessions.SetStatus(status) {
		log.Debugf("auth status [%s] ignored", status)
	} else if status == session.StatusForgotPassword {
		a.mutex.Lock()
		a.resetCodeSent = false
		a.mutex.Unlock()
	}
	redirect(w, r, "/")
}

func (a *App) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.signIn")
	defer span.End()

	username := r.PostFormValue("username")
	a.rememberUsername(username)

	if retryAfter, limited := a.signInLimited(r); limited {
		a.setMessage("/", fmt.Sprintf("Too many sign in attempts. Try again in %.0f seconds.", retryAfter), false)
		redirect(w, r, "/")
		return
	}

	if err := a.auth.SignIn(ctx, username, r.PostFormValue("password")); err != nil {
		log.Debugf("sign in [%s]: %s", username, err)
		a.setMessage("/", errorMessage(err, "Error signing in."), false)
		redirect(w, r, "/")
		return
	}

	a.setMessage("/", "Sign in successful!", true)
	redirect(w, r, "/")
}

func (a *App) signInLimited(r *http.Request) (float64, bool) {
	if a.signInLimiter == nil {
		return 0, false
	}
	res, err := a.signInLimiter.Allow(r.Context(), "gymlogger||sign-in||"+pkg.ClientIP(r), redis_rate.PerMinute(a.signInAllowedPerMin))
	if err != nil {
		// sign in stays available when redis is not
		log.Errorf("sign in rate limiter: %s", err)
		return 0, false
	}
	if res.Allowed > 0 {
		return 0, false
	}
	return res.RetryAfter.Seconds(), true
}

func (a *App) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.signUp")
	defer span.End()

	email := r.PostFormValue("email")
	a.rememberUsername(email)

	step, err := a.auth.SignUp(ctx, email, r.PostFormValue("password"))
	if err != nil {
		log.Debugf("sign up [%s]: %s", email, err)
		a.setMessage("/", errorMessage(err, "Error signing up."), false)
		redirect(w, r, "/")
		return
	}

	if step == identity.SignUpStepConfirm {
		a.sessions.SetStatus(session.StatusConfirmSignUp)
		a.setMessage("/", "Sign up successful! Please check your email for a verification code.", true)
	} else {
		a.setMessage("/", "Sign up and auto-sign in successful!", true)
	}
	redirect(w, r, "/")
}

func (a *App) handleConfirmSignUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "web.confirmSignUp")
	defer span.End()

	username := r.PostFormValue("username")
	a.rememberUsername(username)

	if err := a.auth.ConfirmSignUp(ctx, username, r.PostFormValue("code")); err != nil {
		log.Debugf("confirm sign up [%s]: %s", username, err)
		a.setMessage("/", errorMessage(err, "Error confirming sign up."), false)
		redirect(w, r, "/")
		return
	}

	// no-op when the automatic sign in already went through
	a.sessions.SetStatus(session.StatusSignedOut)
	a.setMessage("/", "Email confirmed! You can now sign in.", true)
	redirect(w, r, "/")
}

func (a *App) handleResendCode(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	if err := a.auth.ResendSignUpCode(r.Context(), username); err != nil {
		log.Debugf("resend code [%s]: %s", username, err)
		a.setMessage("/", errorMessage(err, "Error resending code."), false)
		redirect(w, r, "/")
		return
	}
	a.setMessage("/", "Verification code sent again!", true)
	redirect(w, r, "/")
}

func (a *App) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	a.rememberUsername(username)

	if err := a.auth.ResetPassword(r.Context(), username); err != nil {
		log.Debugf("forgot password [%s]: %s", username, err)
		a.setMessage("/", errorMessage(err, "Error requesting code."), false)
		redirect(w, r, "/")
		return
	}

	a.mutex.Lock()
	a.resetCodeSent = true
	a.mutex.Unlock()
	a.setMessage("/", "Verification code sent to your email.", true)
	redirect(w, r, "/")
}

func (a *App) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	if username == "" {
		a.mutex.Lock()
		username = a.authUsername
		a.mutex.Unlock()
	}

	err := a.auth.ConfirmResetPassword(r.Context(), username, r.PostFormValue("code"), r.PostFormValue("new_password"))
	if err != nil {
		log.Debugf("reset password [%s]: %s", username, err)
		a.setMessage("/", errorMessage(err, "Error resetting password."), false)
		redirect(w, r, "/")
		return
	}

	a.mutex.Lock()
	a.resetCodeSent = false
	a.mutex.Unlock()
	a.sessions.SetStatus(session.StatusSignedOut)
	a.setMessage("/", "Password reset successfully! You can now sign in.", true)
	redirect(w, r, "/")
}

func (a *App) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.SignOut(r.Context()); err != nil {
		log.Warnf("sign out: %s", err)
	}
	redirect(w, r, "/")
}

func (a *App) rememberUsername(username string) {
	if username == "" {
		return
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.authUsername = username
}

// errorMessage is the text of err, or fallback when err has none.
func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return tracker.ErrorText(err)
}
