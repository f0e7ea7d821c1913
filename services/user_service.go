package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type WelcomeMailer interface {
	SendWelcomeEmail(user *tables.User) error
}

// UserService is the admin-only account management.
type UserService struct {
	logger *gecho.Logger
	users  UserStore
	cache  SessionCache
	mailer WelcomeMailer
	params *structs.ArgonParams
}

func NewUserService(logger *gecho.Logger, users UserStore, cache SessionCache, mailer WelcomeMailer) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
		cache:  cache,
		mailer: mailer,
		params: lib.DefaultArgonParams,
	}
}

func (us *UserService) List(ctx context.Context, auth AuthContext) ([]tables.User, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	return us.users.List(ctx)
}

func (us *UserService) Create(ctx context.Context, auth AuthContext, req *structs.CreateUserRequest) (*tables.User, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}

	hash, err := lib.HashPassword(req.Password, us.params)
	if err != nil {
		return nil, err
	}

	user := &tables.User{
		FullName:     strings.TrimSpace(req.FullName),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         tables.Role(req.Role),
	}
	if err := us.users.Create(ctx, user); err != nil {
		if lib.IsUniqueViolation(err) {
			us.logger.Warn("User creation failed, duplicate account", gecho.Field("username", user.Username))
		}
		return nil, err
	}

	us.logger.Info("User created", gecho.Field("user_id", user.Id), gecho.Field("role", user.Role), gecho.Field("by", auth.UserID))

	if err := us.mailer.SendWelcomeEmail(user); err != nil {
		us.logger.Warn("Failed to send welcome email", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}

	user.PasswordHash = ""
	return user, nil
}

// Update rewrites a profile. An empty password keeps the current one; an admin cannot drop their own admin role.
func (us *UserService) Update(ctx context.Context, auth AuthContext, id uuid.UUID, req *structs.UpdateUserRequest) (*tables.User, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}

	role := tables.Role(req.Role)
	if id == auth.UserID && role != tables.RoleAdmin {
		return nil, (&lib.ValidationError{}).Add("role", "you cannot remove your own admin role")
	}

	user := &tables.User{
		Id:       id,
		FullName: strings.TrimSpace(req.FullName),
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     role,
	}
	if req.Password != "" {
		hash, err := lib.HashPassword(req.Password, us.params)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := us.users.Update(ctx, user); err != nil {
		return nil, err
	}
	us.forget(id)

	us.logger.Info("User updated", gecho.Field("user_id", id), gecho.Field("by", auth.UserID))
	user.PasswordHash = ""
	return user, nil
}

func (us *UserService) Delete(ctx context.Context, auth AuthContext, id uuid.UUID) error {
	if err := requireAdmin(auth); err != nil {
		return err
	}
	if id == auth.UserID {
		return (&lib.ValidationError{}).Add("id", "you cannot delete your own account")
	}

	n, err := us.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	us.forget(id)

	us.logger.Info("User deleted", gecho.Field("user_id", id), gecho.Field("by", auth.UserID))
	return nil
}

// BootstrapAdmin creates the first admin account from configuration when no account exists yet.
func (us *UserService) BootstrapAdmin(ctx context.Context, cfg *structs.AuthConfig) error {
	count, err := us.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" || cfg.BootstrapEmail == "" {
		us.logger.Warn("No user accounts and no bootstrap admin configured")
		return nil
	}

	hash, err := lib.HashPassword(cfg.BootstrapPassword, us.params)
	if err != nil {
		return err
	}

	admin := &tables.User{
		FullName:     cfg.BootstrapFullName,
		Username:     strings.ToLower(cfg.BootstrapUsername),
		Email:        strings.ToLower(cfg.BootstrapEmail),
		PasswordHash: hash,
		Role:         tables.RoleAdmin,
	}
	if admin.FullName == "" {
		admin.FullName = "Administrateur"
	}
	if err := us.users.Create(ctx, admin); err != nil {
		return err
	}

	us.logger.Info("Bootstrap admin created", gecho.Field("username", admin.Username))
	return nil
}

func (us *UserService) forget(id uuid.UUID) {
	if err := us.cache.InvalidateUserCache(id); err != nil {
		us.logger.Warn("Failed to drop cached user", gecho.Field("error", err), gecho.Field("user_id", id))
	}
}

func requireAdmin(auth AuthContext) error {
	if !auth.IsAuthenticated() {
		return lib.ErrAuth
	}
	if !auth.IsAdmin() {
		return lib.ErrForbidden
	}
	return nil
}
