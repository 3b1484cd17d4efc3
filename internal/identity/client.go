package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlogger/internal/telemetry/metrics"
	"github.com/2beens/gymlogger/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	targetPrefix   = "AWSCognitoIdentityProviderService."
	amzContentType = "application/x-amz-json-1.1"

	AttrEmail  = "email"
	AttrSub    = "sub"
	AttrUserID = "custom:userId"
)

// Tokens is the result of a successful authentication.
type Tokens struct {
	AccessToken  string    `json:"accessToken"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type SignUpParams struct {
	Username   string
	Password   string
	Attributes map[string]string
}

type SignUpResult struct {
	UserConfirmed bool
	UserSub       string
}

type User struct {
	Username   string
	Attributes map[string]string
}

// ID is the stable user id entries are stored under.
func (u *User) ID() string {
	if id := u.Attributes[AttrUserID]; id != "" {
		return id
	}
	return u.Attributes[AttrSub]
}

// Client talks to the user pool JSON API. Only public client operations
// are used, so requests are not signed.
type Client struct {
	endpoint       string
	clientID       string
	httpClient     *http.Client
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewClient(endpoint, clientID string, httpClient *http.Client, metricsManager *metrics.Manager) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:       endpoint,
		clientID:       clientID,
		httpClient:     httpClient,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

type userAttribute struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type authResult struct {
	AuthenticationResult *struct {
		AccessToken  string `json:"AccessToken"`
		ExpiresIn    int    `json:"ExpiresIn"`
		IdToken      string `json:"IdToken"`
		RefreshToken string `json:"RefreshToken"`
	} `json:"AuthenticationResult"`
	ChallengeName string `json:"ChallengeName"`
}

func (c *Client) InitiateAuth(ctx context.Context, username, password string) (*Tokens, error) {
	var res authResult
	if err := c.call(ctx, "InitiateAuth", map[string]any{
		"AuthFlow": "USER_PASSWORD_AUTH",
		"ClientId": c.clientID,
		"AuthParameters": map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	}, &res); err != nil {
		return nil, err
	}
	return c.tokensFrom(res, "")
}

// RefreshAuth trades a refresh token for fresh access and id tokens. The
// provider does not rotate the refresh token, so the given one is kept.
func (c *Client) RefreshAuth(ctx context.Context, refreshToken string) (*Tokens, error) {
	var res authResult
	if err := c.call(ctx, "InitiateAuth", map[string]any{
		"AuthFlow": "REFRESH_TOKEN_AUTH",
		"ClientId": c.clientID,
		"AuthParameters": map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	}, &res); err != nil {
		return nil, err
	}
	return c.tokensFrom(res, refreshToken)
}

func (c *Client) tokensFrom(res authResult, refreshToken string) (*Tokens, error) {
	if res.AuthenticationResult == nil {
		if res.ChallengeName != "" {
			return nil, &Error{
				Code:    "UnsupportedChallenge",
				Message: fmt.Sprintf("Sign in requires an unsupported step: %s", res.ChallengeName),
			}
		}
		return nil, &Error{Code: "EmptyAuthResult", Message: "Sign in returned no tokens"}
	}

	r := res.AuthenticationResult
	tokens := &Tokens{
		AccessToken:  r.AccessToken,
		IDToken:      r.IdToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    c.now().Add(time.Duration(r.ExpiresIn) * time.Second),
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func (c *Client) SignUp(ctx context.Context, params SignUpParams) (*SignUpResult, error) {
	attrs := make([]userAttribute, 0, len(params.Attributes))
	for name, value := range params.Attributes {
		attrs = append(attrs, userAttribute{Name: name, Value: value})
	}

	var res struct {
		UserConfirmed bool   `json:"UserConfirmed"`
		UserSub       string `json:"UserSub"`
	}
	if err := c.call(ctx, "SignUp", map[string]any{
		"ClientId":       c.clientID,
		"Username":       params.Username,
		"Password":       params.Password,
		"UserAttributes": attrs,
	}, &res); err != nil {
		return nil, err
	}

	return &SignUpResult{
		UserConfirmed: res.UserConfirmed,
		UserSub:       res.UserSub,
	}, nil
}

func (c *Client) ConfirmSignUp(ctx context.Context, username, code string) error {
	return c.call(ctx, "ConfirmSignUp", map[string]any{
		"ClientId":         c.clientID,
		"Username":         username,
		"ConfirmationCode": code,
	}, nil)
}

func (c *Client) ResendConfirmationCode(ctx context.Context, username string) error {
	return c.call(ctx, "ResendConfirmationCode", map[string]any{
		"ClientId": c.clientID,
		"Username": username,
	}, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, username string) error {
	return c.call(ctx, "ForgotPassword", map[string]any{
		"ClientId": c.clientID,
		"Username": username,
	}, nil)
}

func (c *Client) ConfirmForgotPassword(ctx context.Context, username, code, newPassword string) error {
	return c.call(ctx, "ConfirmForgotPassword", map[string]any{
		"ClientId":         c.clientID,
		"Username":         username,
		"ConfirmationCode": code,
		"Password":         newPassword,
	}, nil)
}

func (c *Client) GlobalSignOut(ctx context.Context, accessToken string) error {
	return c.call(ctx, "GlobalSignOut", map[string]any{
		"AccessToken": accessToken,
	}, nil)
}

// GetUser doubles as access token verification: the provider rejects
// expired, revoked or forged tokens.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var res struct {
		Username       string          `json:"Username"`
		UserAttributes []userAttribute `json:"UserAttributes"`
	}
	if err := c.call(ctx, "GetUser", map[string]any{
		"AccessToken": accessToken,
	}, &res); err != nil {
		return nil, err
	}

	user := &User{
		Username:   res.Username,
		Attributes: make(map[string]string, len(res.UserAttributes)),
	}
	for _, a := range res.UserAttributes {
		user.Attributes[a.Name] = a.Value
	}
	return user, nil
}

func (c *Client) call(ctx context.Context, operation string, payload any, out any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "identityClient."+operation)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.countCall(operation, err)
	}()
	span.SetAttributes(attribute.String("operation", operation))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", amzContentType)
	req.Header.Set("X-Amz-Target", targetPrefix+operation)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http client do: %w", operation, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		providerErr := parseError(resp.StatusCode, respBytes)
		log.Debugf("identity %s failed: %s (%s)", operation, providerErr.Code, providerErr.Message)
		return providerErr
	}

	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) countCall(operation string, err error) {
	if c.metricsManager == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metricsManager.CounterIdentityCalls.WithLabelValues(operation, outcome).Inc()
}

func parseError(statusCode int, body []byte) *Error {
	var errResp struct {
		Type    string `json:"__type"`
		Message string `json:"message"`
		// some error shapes use the capitalized key
		MessageAlt string `json:"Message"`
	}
	providerErr := &Error{StatusCode: statusCode}
	if err := json.Unmarshal(body, &errResp); err != nil {
		providerErr.Code = http.StatusText(statusCode)
		providerErr.Message = strings.TrimSpace(string(body))
		return providerErr
	}

	code := errResp.Type
	if i := strings.LastIndex(code, "#"); i >= 0 {
		code = code[i+1:]
	}
	providerErr.Code = code
	providerErr.Message = errResp.Message
	if providerErr.Message == "" {
		providerErr.Message = errResp.MessageAlt
	}
	return providerErr
}
