package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/services"
)

var ErrNoClaims = errors.New("user claims not found in context")

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, ErrNoClaims
	}
	return userIDFromClaims(claims)
}

// userIDFromClaims: json-числа приходят как float64, sub - строкой.
func userIDFromClaims(claims jwt.MapClaims) (int, error) {
	raw, ok := claims[services.ClaimUserID]
	if !ok {
		raw, ok = claims["sub"]
	}
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", services.ClaimUserID)
	}

	var userID int
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %f", services.ClaimUserID, v)
		}
		userID = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s' claim %q", services.ClaimUserID, v)
		}
		userID = n
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: %T", services.ClaimUserID, raw)
	}

	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value: %d", userID)
	}
	return userID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoClaims
	}
	roleStr, ok := claims[services.ClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid '%s' claim", services.ClaimRole)
	}
	role := models.UserRole(roleStr)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	return role, nil
}
