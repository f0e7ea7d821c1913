package services

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	rows map[uuid.UUID]tables.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[uuid.UUID]tables.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *tables.User) error {
	for _, existing := range f.rows {
		if existing.Username == u.Username || existing.Email == u.Email {
			return lib.ErrConflict
		}
	}
	u.Id = uuid.New()
	f.rows[u.Id] = *u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *tables.User) error {
	existing, ok := f.rows[u.Id]
	if !ok {
		return lib.ErrNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}
	f.rows[u.Id] = *u
	return nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	u := f.rows[id]
	now := time.Now()
	u.LastLogin = &now
	f.rows[id] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*tables.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) find(match func(tables.User) bool) (*tables.User, error) {
	for _, u := range f.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*tables.User, error) {
	return f.find(func(u tables.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*tables.User, error) {
	return f.find(func(u tables.User) bool { return u.Email == email })
}

func (f *fakeUsers) List(_ context.Context) ([]tables.User, error) {
	var out []tables.User
	for _, u := range f.rows {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) (int, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	return len(f.rows), nil
}

type fakeSessions struct {
	blacklist map[uuid.UUID]bool
	users     map[uuid.UUID]tables.User
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{blacklist: map[uuid.UUID]bool{}, users: map[uuid.UUID]tables.User{}}
}

func (f *fakeSessions) BlacklistToken(jti uuid.UUID, _ time.Time) error {
	f.blacklist[jti] = true
	return nil
}

func (f *fakeSessions) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	return f.blacklist[jti], nil
}

func (f *fakeSessions) GetUserFromCache(id uuid.UUID) (*tables.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeSessions) SetUserInCache(u *tables.User) error {
	f.users[u.Id] = *u
	return nil
}

func (f *fakeSessions) InvalidateUserCache(id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendWelcomeEmail(u *tables.User) error {
	f.sent = append(f.sent, u.Email)
	return nil
}

var fastArgon = &structs.ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

func newUserService() (*UserService, *fakeUsers, *fakeSessions, *fakeMailer) {
	users, sessions, mailer := newFakeUsers(), newFakeSessions(), &fakeMailer{}
	us := NewUserService(testLogger(), users, sessions, mailer)
	us.params = fastArgon
	return us, users, sessions, mailer
}

func createRequest(username string) *structs.CreateUserRequest {
	return &structs.CreateUserRequest{
		FullName: "Karim Ben Daoud",
		Username: username,
		Email:    username + "@bijouterie.ma",
		Password: "bijoux123",
		Role:     "employe",
	}
}

func TestUserService_AdminOnly(t *testing.T) {
	us, _, _, _ := newUserService()
	ctx := context.Background()

	_, err := us.List(ctx, AuthContext{})
	assert.ErrorIs(t, err, lib.ErrAuth)

	_, err = us.Create(ctx, employee, createRequest("karim"))
	assert.ErrorIs(t, err, lib.ErrForbidden)
}

func TestUserService_CreateUpdateDelete(t *testing.T) {
	us, users, _, mailer := newUserService()
	ctx := context.Background()
	admin := AuthContext{UserID: uuid.New(), Role: tables.RoleAdmin}

	user, err := us.Create(ctx, admin, createRequest("Karim"))
	require.NoError(t, err)
	assert.Equal(t, "karim", user.Username)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, []string{"karim@bijouterie.ma"}, mailer.sent)

	_, err = us.Create(ctx, admin, createRequest("karim"))
	assert.ErrorIs(t, err, lib.ErrConflict)

	stored := users.rows[user.Id].PasswordHash
	_, err = us.Update(ctx, admin, user.Id, &structs.UpdateUserRequest{
		FullName: "Karim B.", Username: "karim", Email: "karim@bijouterie.ma", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, stored, users.rows[user.Id].PasswordHash)
	assert.Equal(t, tables.RoleAdmin, users.rows[user.Id].Role)

	require.NoError(t, us.Delete(ctx, admin, user.Id))
	assert.ErrorIs(t, us.Delete(ctx, admin, user.Id), lib.ErrNotFound)
}

func TestUserService_SelfProtection(t *testing.T) {
	us, users, _, _ := newUserService()
	ctx := context.Background()

	self := tables.User{Username: "admin", Email: "admin@bijouterie.ma", Role: tables.RoleAdmin}
	require.NoError(t, users.Create(ctx, &self))
	admin := AuthContext{UserID: self.Id, Role: tables.RoleAdmin}

	_, err := us.Update(ctx, admin, self.Id, &structs.UpdateUserRequest{
		FullName: "Admin", Username: "admin", Email: "admin@bijouterie.ma", Role: "employe",
	})
	assert.ErrorIs(t, err, lib.ErrValidation)

	assert.ErrorIs(t, us.Delete(ctx, admin, self.Id), lib.ErrValidation)
	assert.Len(t, users.rows, 1)
}

func TestBootstrapAdmin(t *testing.T) {
	us, users, _, _ := newUserService()
	ctx := context.Background()
	cfg := &structs.AuthConfig{BootstrapUsername: "Patron", BootstrapEmail: "patron@bijouterie.ma", BootstrapPassword: "changeme"}

	require.NoError(t, us.BootstrapAdmin(ctx, cfg))
	require.Len(t, users.rows, 1)
	for _, u := range users.rows {
		assert.Equal(t, "patron", u.Username)
		assert.Equal(t, tables.RoleAdmin, u.Role)
	}

	require.NoError(t, us.BootstrapAdmin(ctx, cfg))
	assert.Len(t, users.rows, 1)
}

func TestAuthService_LoginAndLogout(t *testing.T) {
	users, sessions := newFakeUsers(), newFakeSessions()
	cfg := &structs.Config{Auth: &structs.AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour}}
	as := NewAuthService(cfg, testLogger(), users, sessions)
	ctx := context.Background()

	hash, err := lib.HashPassword("bijoux123", fastArgon)
	require.NoError(t, err)
	account := tables.User{Username: "salma", Email: "salma@bijouterie.ma", PasswordHash: hash, Role: tables.RoleEmployee}
	require.NoError(t, users.Create(ctx, &account))

	for _, identifier := range []string{"Salma", "salma@bijouterie.ma"} {
		user, err := as.Login(ctx, &structs.AuthRequest{Identifier: identifier, Password: "bijoux123"})
		require.NoError(t, err)
		assert.Equal(t, account.Id, user.Id)
	}

	_, err = as.Login(ctx, &structs.AuthRequest{Identifier: "salma", Password: "wrong"})
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
	_, err = as.Login(ctx, &structs.AuthRequest{Identifier: "nobody", Password: "bijoux123"})
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)

	token, _, err := as.GenerateAccessToken(&account)
	require.NoError(t, err)

	claims, err := as.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, account.Id, claims.Sub)

	require.NoError(t, as.Logout(claims))
	_, err = as.Authenticate(token)
	assert.ErrorIs(t, err, lib.ErrInvalidToken)

	email, err := as.ResolveUsername(ctx, "SALMA")
	require.NoError(t, err)
	assert.Equal(t, "salma@bijouterie.ma", email)
	_, err = as.ResolveUsername(ctx, "nobody")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}
