package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/philosofium/coursecontent/backend/config"
)

const csrfTokenType = "csrf"

var ErrInvalidCSRFToken = errors.New("invalid csrf token")

func GenerateJWTToken(userID string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(cfg.JWTTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func parseHS256(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func ExtractUserIDFromToken(c *fiber.Ctx, cfg *config.Config) (string, error) {
	tokenString := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	claims, err := parseHS256(tokenString, cfg.JWTSecret)
	if err != nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	return userID, nil
}

// GenerateCSRFToken issues a stateless anti-forgery token signed with CSRFSecret.
func GenerateCSRFToken(cfg *config.Config) (string, time.Time, error) {
	expiresAt := time.Now().Add(cfg.CSRFTTL)
	claims := jwt.MapClaims{
		"typ": csrfTokenType,
		"jti": uuid.NewString(),
		"exp": expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.CSRFSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func ValidateCSRFToken(tokenString string, cfg *config.Config) error {
	if tokenString == "" {
		return ErrInvalidCSRFToken
	}
	claims, err := parseHS256(tokenString, cfg.CSRFSecret)
	if err != nil {
		return ErrInvalidCSRFToken
	}
	if typ, _ := claims["typ"].(string); typ != csrfTokenType {
		return ErrInvalidCSRFToken
	}
	return nil
}
