package services

import (
	"fmt"
	"time"

	"github.com/Dosada05/camma-system/models"
	"github.com/golang-jwt/jwt/v4"
)

// Имена claims; middleware читает те же ключи.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
)

type TokenService interface {
	Issue(user *models.User) (*models.Token, error)
}

type jwtTokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService принимает алгоритм HS256, HS384 или HS512.
func NewTokenService(secret, algorithm string, ttl time.Duration) (TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &jwtTokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *jwtTokenService) Issue(user *models.User) (*models.Token, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		ClaimUserID: user.ID,
		ClaimRole:   string(user.Role),
		"sub":       fmt.Sprintf("%d", user.ID),
		"exp":       now.Add(s.ttl).Unix(),
		"iat":       now.Unix(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.Token{AccessToken: signed, TokenType: "bearer"}, nil
}
