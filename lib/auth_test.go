package lib

import (
	"bijouterie_server/structs"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := &structs.AuthClaims{
		Sub:   uuid.New(),
		Email: "karim@bijouterie.ma",
		Role:  "employe",
		Iat:   now,
		Exp:   now.Add(time.Hour),
		Jti:   uuid.New(),
	}

	token, err := SignToken(claims, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.Role, parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	params := &structs.ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

	hash, err := HashPassword("bijoux123", params)
	require.NoError(t, err)

	ok, err := VerifyPassword("bijoux123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("bijoux123", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestFieldCipher(t *testing.T) {
	disabled := NewFieldCipher("")
	out, err := disabled.Seal("0612345678")
	require.NoError(t, err)
	assert.Equal(t, "0612345678", out)

	c := NewFieldCipher("0123456789abcdef0123456789abcdef")
	sealed, err := c.Seal("0612345678")
	require.NoError(t, err)
	assert.NotEqual(t, "0612345678", sealed)

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "0612345678", opened)
}

func TestGenerateRepairReference(t *testing.T) {
	ref := GenerateRepairReference()

	assert.Len(t, ref, 9)
	assert.Equal(t, "BD-", ref[:3])
}
