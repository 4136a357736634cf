package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
	appErrors "github.com/noah-isme/sma-tutoring-api/pkg/errors"
)

// AuthConfig carries the shared secret of the token issuer.
type AuthConfig struct {
	Secret string
	Issuer string
}

// AuthService verifies bearer tokens issued by the tutoring platform. It never issues tokens.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs the verifier.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: config, logger: logger}
}

// ValidateToken parses an access token and returns the caller it identifies.
func (s *AuthService) ValidateToken(tokenString string) (models.AuthContext, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, options...)
	if err != nil {
		return models.AuthContext{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return models.AuthContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	if userID == "" {
		return models.AuthContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "token has no subject")
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		s.logger.Debug("token with unknown role rejected", zap.String("role", claims.Role))
		return models.AuthContext{}, appErrors.Clone(appErrors.ErrUnauthorized, "token has an unknown role")
	}

	return models.AuthContext{UserID: userID, Role: role, Token: tokenString}, nil
}
