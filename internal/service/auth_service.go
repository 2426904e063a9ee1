package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/tasktrack/internal/auth"
	"github.com/spec-kit/tasktrack/internal/config"
	"github.com/spec-kit/tasktrack/internal/domain"
	"github.com/spec-kit/tasktrack/internal/repository"
	apperrors "github.com/spec-kit/tasktrack/pkg/util"
)

const userDirectoryCacheKey = "tasktrack:users:directory"

// DirectoryEntry is the public shape of a user in listings.
type DirectoryEntry struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

// AuthService resolves acting users and serves the user directory.
type AuthService struct {
	users    repository.UserRepository
	cache    *redis.Client
	tokenMgr *auth.TokenManager
	cacheTTL time.Duration
	logger   *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Cache    *redis.Client
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		cache:    deps.Cache,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		cacheTTL: cfg.Redis.UserCacheTTL(),
		logger:   deps.Logger,
	}
}

// Login looks a user up by username and issues a session token. Users with
// a stored credential must present the matching password; users without one
// log in by username alone.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("username required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("user not found")
		}
		return nil, "", time.Time{}, err
	}

	if user.PasswordHash != nil {
		if err := auth.ComparePassword(*user.PasswordHash, password); err != nil {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// ListUsers returns the user directory, served from the Redis cache when
// fresh. A down cache degrades to uncached reads.
func (s *AuthService) ListUsers(ctx context.Context) ([]DirectoryEntry, error) {
	if entries, ok := s.cachedDirectory(ctx); ok {
		return entries, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]DirectoryEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, DirectoryEntry{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
	}
	s.storeDirectory(ctx, entries)
	return entries, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) cachedDirectory(ctx context.Context) ([]DirectoryEntry, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, userDirectoryCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("user directory cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var entries []DirectoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *AuthService) storeDirectory(ctx context.Context, entries []DirectoryEntry) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userDirectoryCacheKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("user directory cache write failed", zap.Error(err))
	}
}
