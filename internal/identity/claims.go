package identity

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Claims map[string]any

// ParseIDTokenClaims decodes the claims of an id token without checking
// its signature. Only use it on tokens received from the provider directly.
func ParseIDTokenClaims(idToken string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}
	return Claims(claims), nil
}

func (c Claims) String(name string) string {
	s, _ := c[name].(string)
	return s
}

// UserID prefers the custom user id attribute over the provider subject.
func (c Claims) UserID() string {
	if id := c.String(AttrUserID); id != "" {
		return id
	}
	return c.String(AttrSub)
}

func (c Claims) Username() string {
	for _, name := range []string{AttrEmail, "cognito:username", "username"} {
		if v := c.String(name); v != "" {
			return v
		}
	}
	return ""
}
