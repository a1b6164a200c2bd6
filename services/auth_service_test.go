package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T, repo *memUserRepo, sms *fakeSMSSender, now time.Time) (*authService, *DomainMetrics) {
	t.Helper()
	tokens, err := NewTokenService(testSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)

	metrics := NewDomainMetrics(prometheus.NewRegistry())
	svc := NewAuthService(repo, sms, tokens, metrics, discardLogger).(*authService)
	svc.now = func() time.Time { return now }
	svc.genCode = func() (string, error) { return "123456", nil }
	return svc, metrics
}

func TestAuthService_OTPRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	sms := &fakeSMSSender{}
	svc, metrics := newTestAuthService(t, repo, sms, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	resp, err := svc.RequestOTP(ctx, "79991234567")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully", resp.Message)
	assert.Equal(t, 300, resp.ExpiresIn)
	require.Len(t, sms.sent, 1)
	assert.Contains(t, sms.sent[0], "123456")

	token, err := svc.Login(ctx, LoginInput{PhoneNumber: "+79991234567", OTPCode: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 1, claims[ClaimUserID])
	assert.Equal(t, "Боец", claims[ClaimRole])

	user, err := repo.GetByPhone(ctx, nil, "+79991234567")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.OTPCode)

	// код одноразовый
	_, err = svc.Login(ctx, LoginInput{PhoneNumber: "+79991234567", OTPCode: "123456"})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.logins.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.logins.WithLabelValues("rejected")))
}

func TestAuthService_LoginExpiry(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		after   time.Duration
		wantErr error
	}{
		{name: "within window", after: 4 * time.Minute},
		{name: "exactly at expiry", after: OTPTTL},
		{name: "after expiry", after: OTPTTL + time.Second, wantErr: ErrInvalidOTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _ := newTestAuthService(t, newMemUserRepo(), &fakeSMSSender{}, issued)

			_, err := svc.RequestOTP(ctx, "+79990000001")
			require.NoError(t, err)

			svc.now = func() time.Time { return issued.Add(tt.after) }
			_, err = svc.Login(ctx, LoginInput{PhoneNumber: "+79990000001", OTPCode: "123456"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthService_LoginRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, newMemUserRepo(), &fakeSMSSender{}, time.Now())
	_, err := svc.RequestOTP(ctx, "+79990000002")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input LoginInput
	}{
		{name: "unknown phone", input: LoginInput{PhoneNumber: "+79990000003", OTPCode: "123456"}},
		{name: "wrong code", input: LoginInput{PhoneNumber: "+79990000002", OTPCode: "654321"}},
		{name: "malformed phone", input: LoginInput{PhoneNumber: "not-a-phone", OTPCode: "123456"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.input)
			assert.ErrorIs(t, err, ErrInvalidOTP)
		})
	}
}

func TestAuthService_RequestOTP_DispatchFailure(t *testing.T) {
	sms := &fakeSMSSender{SendFunc: func(ctx context.Context, phone, message string) error {
		return errors.New("gateway timeout")
	}}
	svc, metrics := newTestAuthService(t, newMemUserRepo(), sms, time.Now())

	_, err := svc.RequestOTP(context.Background(), "+79990000004")
	assert.ErrorIs(t, err, ErrOTPDispatchFailed)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.otpRequests.WithLabelValues("failed")))
}

func TestAuthService_RequestOTP_InvalidPhone(t *testing.T) {
	sms := &fakeSMSSender{}
	svc, _ := newTestAuthService(t, newMemUserRepo(), sms, time.Now())

	_, err := svc.RequestOTP(context.Background(), "12ab")
	assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
	assert.Empty(t, sms.sent)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9]\d{5}$`, code)
	}
}
