package repositories

import (
	"bijouterie_server/database"
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) Create(ctx context.Context, user *tables.User) error {
	stamp(&user.Id, &user.CreatedAt)

	if _, err := database.Query[tables.User](ur.db).Insert(ctx, user); err != nil {
		return userError("insert user", err)
	}
	return nil
}

// Update writes the profile columns, and the password hash when set.
func (ur *UserRepository) Update(ctx context.Context, user *tables.User) error {
	updates := map[string]any{
		"full_name": user.FullName,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
	}
	if user.PasswordHash != "" {
		updates["password_hash"] = user.PasswordHash
	}

	n, err := database.UpdateByID[tables.User](ur.db, ctx, user.Id, updates)
	if err != nil {
		return userError("update user", err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (ur *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := database.Query[tables.User](ur.db).Where("id", id).Update(ctx, map[string]any{
		"last_login": time.Now().UTC(),
	})
	return err
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	return database.FindByID[tables.User](ur.db, ctx, id)
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (*tables.User, error) {
	return database.Query[tables.User](ur.db).Where("username", strings.ToLower(username)).First(ctx)
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (*tables.User, error) {
	return database.Query[tables.User](ur.db).Where("email", strings.ToLower(email)).First(ctx)
}

func (ur *UserRepository) List(ctx context.Context) ([]tables.User, error) {
	return database.Query[tables.User](ur.db).OrderBy("created_at", database.ASC).All(ctx)
}

func (ur *UserRepository) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	return database.DeleteByID[tables.User](ur.db, ctx, id)
}

func (ur *UserRepository) Count(ctx context.Context) (int, error) {
	return database.Query[tables.User](ur.db).Count(ctx)
}

// userError reports duplicate usernames and emails as conflicts.
func userError(op string, err error) error {
	if mapped := lib.MapPgError(err); lib.IsUniqueViolation(mapped) {
		return mapped
	}
	return lib.Persistence(op, err)
}
