package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/caching"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues and refreshes the credentials that make a Principal.
// Access tokens are signed JWTs carrying user, tenant, and role; refresh
// tokens are opaque secrets stored hashed in Redis with a TTL.
type AuthService interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// TokenClaims are the JWT claims attached to access tokens.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo   repositories.UserRepository
	cacheSvc   caching.CacheService
	jwtSecret  []byte
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		cacheSvc:   cacheSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quotegen-auth",
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"quotegen-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}
	refreshTokenHash := hashToken(refreshToken)

	// Only the hash touches Redis; the raw secret goes to the caller once.
	value := fmt.Sprintf("%s:%s", user.ID.String(), user.TenantID.String())
	cacheKey := refreshTokenKey(refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, value, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		TenantID:     user.TenantID.String(),
		IssuedAt:     now,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	cacheKey := refreshTokenKey(hashToken(refreshToken))
	value, err := s.cacheSvc.GetString(ctx, cacheKey)
	if errors.Is(err, caching.ErrCacheMiss) {
		return nil, errors.New("refresh token is invalid or has expired")
	}
	if err != nil {
		return nil, err
	}

	parts := strings.SplitN(value, ":", 2)
	userID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, errors.New("refresh token is malformed")
	}

	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("user for refresh token no longer exists")
	}

	// Rotate: the old secret dies with this exchange.
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		return nil, err
	}

	return s.GenerateTokens(ctx, user)
}

func (s *authService) Revoke(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshTokenKey(hashToken(refreshToken)))
}

func refreshTokenKey(hash string) string {
	return "quotegen:refresh_token:" + hash
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
