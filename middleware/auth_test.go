package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/services"
)

const secret = "middleware-secret"

func signed(t *testing.T, method jwt.SigningMethod, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestAuthenticate(t *testing.T) {
	tokens, err := services.NewTokenService(secret, "HS256", time.Hour)
	require.NoError(t, err)
	issued, err := tokens.Issue(&models.User{ID: 17, Role: models.RoleMatchmaker})
	require.NoError(t, err)

	expired := signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"user_id": 17, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	wrongAlg := signed(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{
		"user_id": 17, "exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signed(t, jwt.SigningMethodHS256, "other", jwt.MapClaims{
		"user_id": 17, "exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + issued.AccessToken, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + issued.AccessToken, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "unexpected algorithm", header: "Bearer " + wrongAlg, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
		{name: "no user id", header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int
			var gotRole models.UserRole
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = GetUserIDFromContext(r.Context())
				gotRole, _ = GetUserRoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authenticate(secret, "HS256")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, 17, gotID)
				assert.Equal(t, models.RoleMatchmaker, gotRole)
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    int
		wantErr bool
	}{
		{name: "float claim", claims: jwt.MapClaims{"user_id": float64(5)}, want: 5},
		{name: "string sub fallback", claims: jwt.MapClaims{"sub": "8"}, want: 8},
		{name: "fractional", claims: jwt.MapClaims{"user_id": 1.5}, wantErr: true},
		{name: "zero", claims: jwt.MapClaims{"user_id": float64(0)}, wantErr: true},
		{name: "bool", claims: jwt.MapClaims{"user_id": true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			id, err := GetUserIDFromContext(WithClaims(req.Context(), tt.claims))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}

	_, err := GetUserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, ErrNoClaims)
}
