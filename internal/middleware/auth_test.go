package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymlogger/internal/identity"
	"github.com/2beens/gymlogger/internal/middleware"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func userWithID(id string) *identity.User {
	return &identity.User{
		Username:   "sub-" + id,
		Attributes: map[string]string{identity.AttrUserID: id, identity.AttrSub: "sub-" + id},
	}
}

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		method             string
		authHeader         string
		expectVerify       bool
		verifiedUser       *identity.User
		verifyErr          error
		expectedStatusCode int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/healthz",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Options",
			path:               "/entries/user-1",
			method:             http.MethodOptions,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MissingToken",
			path:               "/entries/user-1",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "NotBearer",
			path:               "/entries/user-1",
			method:             http.MethodGet,
			authHeader:         "Basic dXNlcjpwYXNz",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "InvalidToken",
			path:               "/entries/user-1",
			method:             http.MethodGet,
			authHeader:         "Bearer revoked",
			expectVerify:       true,
			verifyErr:          &identity.Error{Code: "NotAuthorizedException", Message: "Access Token has been revoked"},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/entries/user-1",
			method:             http.MethodGet,
			authHeader:         "Bearer good",
			expectVerify:       true,
			verifiedUser:       userWithID("user-1"),
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ValidTokenLowercaseScheme",
			path:               "/entries/user-1/entry-1",
			method:             http.MethodDelete,
			authHeader:         "bearer good",
			expectVerify:       true,
			verifiedUser:       userWithID("user-1"),
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "OtherUsersEntries",
			path:               "/entries/user-2",
			method:             http.MethodGet,
			authHeader:         "Bearer good",
			expectVerify:       true,
			verifiedUser:       userWithID("user-1"),
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:               "UserWithoutID",
			path:               "/entries/user-1",
			method:             http.MethodGet,
			authHeader:         "Bearer good",
			expectVerify:       true,
			verifiedUser:       &identity.User{Attributes: map[string]string{}},
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			verifier := NewMockuserVerifier(ctrl)
			authMiddleware := middleware.NewAuthMiddlewareHandler(verifier, freecache.NewCache(1024*1024), time.Minute)

			if tc.expectVerify {
				verifier.EXPECT().
					GetUser(gomock.Any(), gomock.Any()).
					Return(tc.verifiedUser, tc.verifyErr)
			}

			var seenUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenUserID, _ = middleware.UserIDFromContext(r.Context())
			})

			r := mux.NewRouter()
			r.Handle("/healthz", next).Methods("GET")
			r.Handle("/entries/{userId}", next).Methods("GET", "OPTIONS")
			r.Handle("/entries/{userId}/{entryId}", next).Methods("DELETE", "OPTIONS")
			r.Use(authMiddleware.AuthCheck())

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectedStatusCode == http.StatusOK && tc.verifiedUser != nil {
				assert.Equal(t, "user-1", seenUserID)
			}
			if rr.Code == http.StatusUnauthorized || rr.Code == http.StatusForbidden {
				assert.Contains(t, rr.Body.String(), `"error"`)
			}
		})
	}
}

func TestAuthMiddlewareHandler_CachesVerifiedTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := NewMockuserVerifier(ctrl)
	verifier.EXPECT().
		GetUser(gomock.Any(), "good").
		Return(userWithID("user-1"), nil).
		Times(1)

	authMiddleware := middleware.NewAuthMiddlewareHandler(verifier, freecache.NewCache(1024*1024), time.Minute)
	r := mux.NewRouter()
	r.HandleFunc("/entries/{userId}", func(http.ResponseWriter, *http.Request) {}).Methods("GET")
	r.Use(authMiddleware.AuthCheck())

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/entries/user-1", nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	// cached identity still has to match the path
	req := httptest.NewRequest(http.MethodGet, "/entries/user-2", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
