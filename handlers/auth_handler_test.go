package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/services"
)

func TestAuthHandler_RequestOTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"sent", `{"phone_number":"+77011234567"}`, nil, http.StatusOK},
		{"missing phone", `{}`, nil, http.StatusBadRequest},
		{"invalid phone", `{"phone_number":"12ab"}`, services.ErrInvalidPhoneNumber, http.StatusBadRequest},
		{"gateway down", `{"phone_number":"+77011234567"}`, errors.Join(services.ErrOTPDispatchFailed, errors.New("timeout")), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{
				RequestOTPFunc: func(ctx context.Context, phone string) (*services.OTPResponse, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &services.OTPResponse{Message: "OTP sent successfully", ExpiresIn: 300}, nil
				},
			}
			h := NewAuthHandler(svc)

			rr := serve(http.MethodPost, "/auth/request-otp", "/auth/request-otp", jsonBody(tt.body), 0, h.RequestOTP)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				var resp services.OTPResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, 300, resp.ExpiresIn)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &fakeAuthService{
		LoginFunc: func(ctx context.Context, input services.LoginInput) (*models.Token, error) {
			if input.OTPCode != "123456" {
				return nil, services.ErrInvalidOTP
			}
			return &models.Token{AccessToken: "jwt", TokenType: "bearer"}, nil
		},
	}
	h := NewAuthHandler(svc)

	t.Run("success", func(t *testing.T) {
		rr := serve(http.MethodPost, "/auth/login", "/auth/login",
			jsonBody(`{"phone_number":"+77011234567","otp_code":"123456"}`), 0, h.Login)

		require.Equal(t, http.StatusOK, rr.Code)
		var token models.Token
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
		assert.Equal(t, "jwt", token.AccessToken)
		assert.Equal(t, "bearer", token.TokenType)
	})

	t.Run("wrong code", func(t *testing.T) {
		rr := serve(http.MethodPost, "/auth/login", "/auth/login",
			jsonBody(`{"phone_number":"+77011234567","otp_code":"000000"}`), 0, h.Login)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing code", func(t *testing.T) {
		rr := serve(http.MethodPost, "/auth/login", "/auth/login",
			jsonBody(`{"phone_number":"+77011234567"}`), 0, h.Login)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
