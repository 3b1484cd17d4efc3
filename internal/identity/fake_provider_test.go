package identity_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2beens/gymlogger/internal/identity"

	"github.com/golang-jwt/jwt/v5"
)

type fakeUser struct {
	password  string
	confirmed bool
	attrs     map[string]string
}

// fakeProvider mimics the user pool JSON API closely enough for the
// client and the auth flow.
type fakeProvider struct {
	mutex       sync.Mutex
	users       map[string]*fakeUser
	calls       []string
	expiresIn   int
	failRefresh bool
	code        string
	revoked     map[string]bool
	issued      int
	server      *httptest.Server
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{
		users:     map[string]*fakeUser{},
		expiresIn: 3600,
		code:      "123456",
		revoked:   map[string]bool{},
	}
	p.server = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) client() *identity.Client {
	return identity.NewClient(p.server.URL, "test-client", p.server.Client(), nil)
}

func (p *fakeProvider) addUser(username, password, userID string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.users[username] = &fakeUser{
		password:  password,
		confirmed: true,
		attrs: map[string]string{
			identity.AttrEmail:  username,
			identity.AttrSub:    "sub-" + username,
			identity.AttrUserID: userID,
		},
	}
}

func (p *fakeProvider) setExpiresIn(seconds int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.expiresIn = seconds
}

func (p *fakeProvider) setFailRefresh(fail bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.failRefresh = fail
}

func (p *fakeProvider) callsOf(op string) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (p *fakeProvider) user(username string) *fakeUser {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.users[username]
}

func writeFakeError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"__type":  "com.amazonaws.cognito.identity.idp.model#" + code,
		"message": message,
	})
}

func idTokenFor(attrs map[string]string) string {
	claims := jwt.MapClaims{
		"exp":              time.Now().Add(time.Hour).Unix(),
		"cognito:username": attrs[identity.AttrSub],
	}
	for k, v := range attrs {
		claims[k] = v
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fake-signing-key"))
	if err != nil {
		panic(err)
	}
	return token
}

func (p *fakeProvider) handle(w http.ResponseWriter, r *http.Request) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	op := strings.TrimPrefix(r.Header.Get("X-Amz-Target"), "AWSCognitoIdentityProviderService.")
	p.calls = append(p.calls, op)

	var req struct {
		AuthFlow         string
		AuthParameters   map[string]string
		Username         string
		Password         string
		ConfirmationCode string
		AccessToken      string
		UserAttributes   []struct{ Name, Value string }
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFakeError(w, "InvalidParameterException", err.Error())
		return
	}

	switch op {
	case "InitiateAuth":
		var u *fakeUser
		switch req.AuthFlow {
		case "USER_PASSWORD_AUTH":
			u = p.users[req.AuthParameters["USERNAME"]]
			if u == nil || u.password != req.AuthParameters["PASSWORD"] {
				writeFakeError(w, "NotAuthorizedException", "Incorrect username or password.")
				return
			}
			if !u.confirmed {
				writeFakeError(w, "UserNotConfirmedException", "User is not confirmed.")
				return
			}
		case "REFRESH_TOKEN_AUTH":
			if p.failRefresh {
				writeFakeError(w, "NotAuthorizedException", "Refresh Token has expired")
				return
			}
			username := strings.TrimPrefix(req.AuthParameters["REFRESH_TOKEN"], "refresh-")
			u = p.users[username]
			if u == nil {
				writeFakeError(w, "NotAuthorizedException", "Invalid Refresh Token")
				return
			}
		}

		p.issued++
		result := map[string]any{
			"AccessToken": fmt.Sprintf("access-%s-%d", u.attrs[identity.AttrEmail], p.issued),
			"ExpiresIn":   p.expiresIn,
			"IdToken":     idTokenFor(u.attrs),
			"TokenType":   "Bearer",
		}
		if req.AuthFlow == "USER_PASSWORD_AUTH" {
			result["RefreshToken"] = "refresh-" + u.attrs[identity.AttrEmail]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"AuthenticationResult": result})

	case "SignUp":
		if _, exists := p.users[req.Username]; exists {
			writeFakeError(w, "UsernameExistsException", "An account with the given email already exists.")
			return
		}
		u := &fakeUser{password: req.Password, attrs: map[string]string{identity.AttrSub: "sub-" + req.Username}}
		for _, a := range req.UserAttributes {
			u.attrs[a.Name] = a.Value
		}
		p.users[req.Username] = u
		_ = json.NewEncoder(w).Encode(map[string]any{"UserConfirmed": false, "UserSub": u.attrs[identity.AttrSub]})

	case "ConfirmSignUp", "ConfirmForgotPassword":
		u := p.users[req.Username]
		if u == nil {
			writeFakeError(w, "UserNotFoundException", "Username/client id combination not found.")
			return
		}
		if req.ConfirmationCode != p.code {
			writeFakeError(w, "CodeMismatchException", "Invalid verification code provided, please try again.")
			return
		}
		if op == "ConfirmSignUp" {
			u.confirmed = true
		} else {
			u.password = req.Password
		}
		_, _ = w.Write([]byte(`{}`))

	case "ResendConfirmationCode", "ForgotPassword":
		if p.users[req.Username] == nil {
			writeFakeError(w, "UserNotFoundException", "Username/client id combination not found.")
			return
		}
		_, _ = w.Write([]byte(`{}`))

	case "GlobalSignOut":
		p.revoked[req.AccessToken] = true
		_, _ = w.Write([]byte(`{}`))

	case "GetUser":
		if p.revoked[req.AccessToken] || !strings.HasPrefix(req.AccessToken, "access-") {
			writeFakeError(w, "NotAuthorizedException", "Invalid Access Token")
			return
		}
		rest := strings.TrimPrefix(req.AccessToken, "access-")
		username := rest[:strings.LastIndex(rest, "-")]
		u := p.users[username]
		attrs := make([]map[string]string, 0, len(u.attrs))
		for k, v := range u.attrs {
			attrs = append(attrs, map[string]string{"Name": k, "Value": v})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"Username": u.attrs[identity.AttrSub], "UserAttributes": attrs})

	default:
		writeFakeError(w, "UnknownOperationException", op)
	}
}
