package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/saasctl/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; the format is identical
var testParams = Params{Memory: 1024, Iterations: 1, Threads: 1, SaltLength: 16, KeyLength: 32}

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, pw := range []string{"secret123", "newpass", "пароль", "a"} {
		t.Run(pw, func(t *testing.T) {
			h, err := HashPasswordWithParams([]byte(pw), testParams)
			require.NoError(t, err)

			ok, err := VerifyPassword(h, []byte(pw))
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = VerifyPassword(h, []byte(pw+"x"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHashPassword_DefaultParams(t *testing.T) {
	h, err := HashPassword([]byte("secret123"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=3,p=4$"), h)

	ok, err := VerifyPassword(h, []byte("secret123"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPassword_UniqueSaltAndNoPlaintext(t *testing.T) {
	a, err := HashPasswordWithParams([]byte("secret123"), testParams)
	require.NoError(t, err)
	b, err := HashPasswordWithParams([]byte("secret123"), testParams)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "secret123")

	_, saltA, _, err := DecodeHash(a)
	require.NoError(t, err)
	_, saltB, _, err := DecodeHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, saltA, saltB)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPasswordWithParams(nil, testParams)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = HashPasswordWithParams([]byte("x"), Params{})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestDecodeHash_SelfDescribing(t *testing.T) {
	h, err := HashPasswordWithParams([]byte("pw"), testParams)
	require.NoError(t, err)

	p, salt, key, err := DecodeHash(h)
	require.NoError(t, err)
	assert.Equal(t, testParams, p)
	assert.Len(t, salt, 16)
	assert.Len(t, key, 32)
}

func TestVerifyPassword_BadHashes(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"plaintext", "secret123", ErrInvalidHash},
		{"legacy pbkdf2", "pbkdf2:abcd:100000:ffff", ErrInvalidHash},
		{"bcrypt", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", ErrInvalidHash},
		{"other algorithm", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5", ErrUnsupportedHash},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5", ErrIncompatibleVersion},
		{"bad params", "$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5a2V5", ErrInvalidHash},
		{"empty key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword(tt.encoded, []byte("secret123"))
			assert.False(t, ok)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
