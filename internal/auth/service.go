// internal/auth/service.go
// Service layer contains all business logic for authentication

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniroomhq/uniroom-backend/internal/common/utils"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Service interface
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, userID int64) (*User, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret           string
	AccessTokenExpiry   time.Duration
	RefreshTokenExpiry  time.Duration
	BCryptCost          int
	LoginAttemptsMax    int
	LoginAttemptsWindow time.Duration
}

type service struct {
	repo   Repository
	redis  *redis.Client
	config *Config
}

// NewService creates a new auth service. The redis client is optional; when
// nil, token revocation and login throttling degrade to no-ops.
func NewService(repo Repository, redisClient *redis.Client, config *Config) Service {
	return &service{
		repo:   repo,
		redis:  redisClient,
		config: config,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, err := s.repo.IsEmailTaken(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         "student",
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkLoginAttempts(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.recordLoginAttempt(ctx, email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLoginAttempt(ctx, email)
		return nil, ErrInvalidCredentials
	}

	s.clearLoginAttempts(ctx, email)
	s.cacheUser(ctx, user)

	return s.issueTokens(user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.ValidateToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	// A used refresh token is revoked so it cannot be replayed
	if err := s.revokeToken(ctx, claims); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.redis != nil && claims.TokenID != "" {
		revoked, err := s.redis.Exists(ctx, revokedKey(claims.TokenID)).Result()
		if err == nil && revoked > 0 {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	if s.redis != nil {
		s.redis.Del(ctx, userCacheKey(claims.UserID))
	}

	return s.revokeToken(ctx, claims)
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	if user := s.cachedUser(ctx, userID); user != nil {
		return user, nil
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// issueTokens builds an access/refresh pair for the user
func (s *service) issueTokens(user *User) (*AuthResponse, error) {
	now := time.Now()

	accessToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "uniroom-api",
		Subject:   fmt.Sprintf("%d", user.ID),
		TokenID:   uuid.NewString(),
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Type:      "refresh",
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "uniroom-api",
		Subject:   fmt.Sprintf("%d", user.ID),
		TokenID:   uuid.NewString(),
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

// revokeToken marks the token id as revoked until its natural expiry
func (s *service) revokeToken(ctx context.Context, claims *utils.JWTClaims) error {
	if s.redis == nil || claims.TokenID == "" {
		return nil
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	return s.redis.Set(ctx, revokedKey(claims.TokenID), "1", ttl).Err()
}

func (s *service) checkLoginAttempts(ctx context.Context, email string) error {
	if s.redis == nil {
		return nil
	}

	count, err := s.redis.Get(ctx, attemptsKey(email)).Int()
	if err != nil {
		return nil
	}

	if count >= s.config.LoginAttemptsMax {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *service) recordLoginAttempt(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}

	key := attemptsKey(email)
	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		s.redis.Expire(ctx, key, s.config.LoginAttemptsWindow)
	}
}

func (s *service) clearLoginAttempts(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, attemptsKey(email))
}

func (s *service) cacheUser(ctx context.Context, user *User) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.redis.Set(ctx, userCacheKey(user.ID), data, 30*time.Minute)
}

func (s *service) cachedUser(ctx context.Context, userID int64) *User {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, userCacheKey(userID)).Result()
	if err != nil {
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil
	}
	return &user
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func userCacheKey(userID int64) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

func attemptsKey(email string) string {
	return "auth:attempts:" + email
}
