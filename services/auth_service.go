package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, user *tables.User) error
	Update(ctx context.Context, user *tables.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*tables.User, error)
	GetByUsername(ctx context.Context, username string) (*tables.User, error)
	GetByEmail(ctx context.Context, email string) (*tables.User, error)
	List(ctx context.Context) ([]tables.User, error)
	Delete(ctx context.Context, id uuid.UUID) (int, error)
	Count(ctx context.Context) (int, error)
}

// SessionCache keeps logged out token ids and recently resolved users.
type SessionCache interface {
	BlacklistToken(jti uuid.UUID, exp time.Time) error
	IsTokenBlacklisted(jti uuid.UUID) (bool, error)
	GetUserFromCache(userID uuid.UUID) (*tables.User, error)
	SetUserInCache(user *tables.User) error
	InvalidateUserCache(userID uuid.UUID) error
}

type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	users  UserStore
	cache  SessionCache
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, users UserStore, cache SessionCache) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		users:  users,
		cache:  cache,
	}
}

// Login accepts a username or an email. Unknown accounts and wrong passwords give the same error.
func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*tables.User, error) {
	startTime := time.Now()
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))

	var (
		user *tables.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = as.users.GetByEmail(ctx, identifier)
	} else {
		user, err = as.users.GetByUsername(ctx, identifier)
	}
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		return nil, lib.ErrInvalidCredentials
	}
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", identifier))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	if err := as.users.TouchLastLogin(ctx, user.Id); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	as.logger.Debug("User logged in", gecho.Field("user_id", user.Id), gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))

	user.PasswordHash = ""
	if err := as.cache.SetUserInCache(user); err != nil {
		as.logger.Warn("Failed to set user in cache after login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	return user, nil
}

// ResolveUsername returns the email of an account, used by the login form.
func (as *AuthService) ResolveUsername(ctx context.Context, username string) (string, error) {
	user, err := as.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", lib.ErrNotFound
	}
	return user.Email, nil
}

// GenerateAccessToken issues the session token and returns its expiry
func (as *AuthService) GenerateAccessToken(user *tables.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(as.cfg.Auth.AccessTokenExpiry)

	token, err := lib.SignToken(&structs.AuthClaims{
		Sub:   user.Id,
		Email: user.Email,
		Role:  string(user.Role),
		Iat:   now,
		Exp:   exp,
		Jti:   uuid.New(),
	}, as.cfg.Auth.AccessTokenSecret)
	return token, exp, err
}

// Authenticate parses a token and rejects expired or logged out ones.
func (as *AuthService) Authenticate(token string) (*structs.AuthClaims, error) {
	claims, err := lib.ParseToken(token, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		return nil, lib.ErrInvalidToken
	}
	if time.Now().After(claims.Exp) {
		return nil, lib.ErrExpiredToken
	}

	blacklisted, err := as.cache.IsTokenBlacklisted(claims.Jti)
	if err != nil {
		// redis down: keep the shop usable, the token signature is still checked
		as.logger.Warn("Failed to check token blacklist", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	} else if blacklisted {
		return nil, lib.ErrInvalidToken
	}

	return claims, nil
}

func (as *AuthService) Logout(claims *structs.AuthClaims) error {
	if err := as.cache.BlacklistToken(claims.Jti, claims.Exp); err != nil {
		as.logger.Error("Failed to blacklist token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return err
	}
	if err := as.cache.InvalidateUserCache(claims.Sub); err != nil {
		as.logger.Warn("Failed to drop cached user on logout", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
	}
	return nil
}

func (as *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*tables.User, error) {
	cached, err := as.cache.GetUserFromCache(userID)
	if err != nil {
		as.logger.Warn("Failed to get user from cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	} else if cached != nil {
		return cached, nil
	}

	user, err := as.users.GetByID(ctx, userID)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", userID))
		return nil, err
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}

	user.PasswordHash = ""
	if err := as.cache.SetUserInCache(user); err != nil {
		as.logger.Warn("Failed to cache user after DB fetch", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
	return user, nil
}
