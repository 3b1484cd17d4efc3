package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlogger/internal/identity"
	"github.com/2beens/gymlogger/internal/telemetry/tracing"
	"github.com/2beens/gymlogger/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type userIDKey struct{}

type userVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
}

// AuthMiddlewareHandler lets a request through only when its bearer token
// belongs to the user named in the {userId} path variable.
type AuthMiddlewareHandler struct {
	verifier     userVerifier
	cache        *freecache.Cache
	cacheTTL     time.Duration
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(verifier userVerifier, cache *freecache.Cache, cacheTTL time.Duration) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		verifier: verifier,
		cache:    cache,
		cacheTTL: cacheTTL,
		allowedPaths: map[string]bool{
			"/":        true,
			"/healthz": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "missing access token", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.userID(ctx, token)
			if err != nil {
				log.Debugf("[invalid token] [auth middleware] %s: %s", r.URL.Path, err)
				pkg.WriteJSONError(w, "invalid access token", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				span.RecordError(err)
				return
			}

			if pathUserID := mux.Vars(r)["userId"]; pathUserID != "" && pathUserID != userID {
				log.Warnf("[auth middleware] user %s tried to access entries of %s", userID, pathUserID)
				pkg.WriteJSONError(w, "access to other users' entries is not allowed", http.StatusForbidden)
				span.SetStatus(codes.Error, "user-mismatch")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
		})
	}
}

// userID resolves the token owner, asking the identity provider only when
// the token is not cached yet.
func (h *AuthMiddlewareHandler) userID(ctx context.Context, token string) (string, error) {
	key := sha256.Sum256([]byte(token))
	if h.cache != nil {
		if cached, err := h.cache.Get(key[:]); err == nil {
			return string(cached), nil
		}
	}

	user, err := h.verifier.GetUser(ctx, token)
	if err != nil {
		return "", err
	}
	userID := user.ID()
	if userID == "" {
		return "", &identity.Error{Code: "NoUserID", Message: "token owner has no user id"}
	}

	if h.cache != nil {
		if err := h.cache.Set(key[:], []byte(userID), int(h.cacheTTL.Seconds())); err != nil {
			log.Errorf("auth middleware, cache token: %s", err)
		}
	}
	return userID, nil
}

// UserIDFromContext returns the user verified by AuthCheck.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
