package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
)

const (
	OTPLength = 6
	OTPTTL    = 5 * time.Minute
)

type AuthService interface {
	RequestOTP(ctx context.Context, phone string) (*OTPResponse, error)
	Login(ctx context.Context, input LoginInput) (*models.Token, error)
}

type OTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"` // секунды
}

type LoginInput struct {
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

type authService struct {
	userRepo repositories.UserRepository
	sms      SMSSender
	tokens   TokenService
	logger   *slog.Logger
	metrics  *DomainMetrics
	now      func() time.Time
	genCode  func() (string, error)
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sms SMSSender,
	tokens TokenService,
	metrics *DomainMetrics,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		sms:      sms,
		tokens:   tokens,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		genCode:  generateOTP,
	}
}

// RequestOTP создаёт пользователя (роль Боец) или обновляет его код, затем отправляет SMS.
func (s *authService) RequestOTP(ctx context.Context, phone string) (*OTPResponse, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	code, err := s.genCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}
	// время без зоны: и запись, и проверка идут в UTC
	expiresAt := s.now().UTC().Add(OTPTTL)

	user, err := s.userRepo.UpsertOTP(ctx, phone, models.RoleFighter, code, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.sms.Send(ctx, phone, fmt.Sprintf("Ваш код для входа в CAMMA: %s", code)); err != nil {
		s.metrics.otpRequested("failed")
		s.logger.WarnContext(ctx, "otp dispatch failed", slog.Int("user_id", user.ID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrOTPDispatchFailed, err)
	}
	s.metrics.otpRequested("sent")

	return &OTPResponse{
		Message:   "OTP sent successfully",
		ExpiresIn: int(OTPTTL.Seconds()),
	}, nil
}

// Login сверяет код как строку. Код одноразовый: после успеха он стирается.
func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Token, error) {
	token, err := s.login(ctx, input)
	switch {
	case err == nil:
		s.metrics.loginAttempt("success")
	case errors.Is(err, ErrInvalidOTP):
		s.metrics.loginAttempt("rejected")
	default:
		s.metrics.loginAttempt("error")
	}
	return token, err
}

func (s *authService) login(ctx context.Context, input LoginInput) (*models.Token, error) {
	phone, err := NormalizePhone(input.PhoneNumber)
	if err != nil {
		return nil, ErrInvalidOTP
	}

	user, err := s.userRepo.GetByPhone(ctx, nil, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}

	if user.OTPCode == nil || *user.OTPCode != input.OTPCode || user.OTPExpiresAt == nil {
		return nil, ErrInvalidOTP
	}
	if user.OTPExpiresAt.Before(s.now().UTC()) {
		return nil, ErrInvalidOTP
	}

	if err := s.userRepo.ConsumeOTP(ctx, user.ID, input.OTPCode); err != nil {
		if errors.Is(err, repositories.ErrOTPNotConsumed) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to clear otp: %w", err)
	}
	user.OTPCode = nil
	user.OTPExpiresAt = nil
	user.IsVerified = true

	return s.tokens.Issue(user)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()+100000), nil
}
