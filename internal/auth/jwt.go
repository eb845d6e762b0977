package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 30 * time.Minute

var jwtSecret string

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return nil
}

func tokenTTL() time.Duration {
	if raw := os.Getenv("TOKEN_TTL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultTokenTTL
}

// GenerateToken signs a time-bounded token whose only claim is the
// subject employee id.
func GenerateToken(subject uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(subject), 10),
		"exp": time.Now().Add(tokenTTL()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseSubject verifies a bearer token and extracts the subject id.
func ParseSubject(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return 0, apperr.New(apperr.Unauthenticated, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return 0, apperr.New(apperr.Unauthenticated, "Invalid token claims")
	}

	subject, err := claims.GetSubject()

	if err != nil || subject == "" {
		return 0, apperr.New(apperr.InvalidPayload, "Invalid token payload")
	}

	id, err := strconv.ParseUint(subject, 10, 64)

	if err != nil {
		return 0, apperr.New(apperr.InvalidPayload, "Invalid token payload")
	}

	return uint(id), nil
}
