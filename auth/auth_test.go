package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrewpaige1/studyflash-api/config"
	"github.com/andrewpaige1/studyflash-api/models"
)

func testIssuer() *Issuer {
	return NewIssuer(config.Auth{
		Secret:   "0123456789abcdef0123",
		Issuer:   "studyflash-test",
		Audience: "studyflash",
		TokenTTL: time.Hour,
	})
}

func TestCreateToken(t *testing.T) {
	issuer := testIssuer()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	tokenString, err := issuer.CreateToken(models.User{PublicID: "u_123", Username: "alice"})
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("0123456789abcdef0123"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "u_123", claims.Subject)
	assert.Equal(t, "studyflash-test", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"studyflash"}, claims.Audience)
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestCreateToken_WrongSecretRejected(t *testing.T) {
	tokenString, err := testIssuer().CreateToken(models.User{PublicID: "u_1", Username: "bob"})
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("another-secret-entirely"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestPIN(t *testing.T) {
	PinCost = bcrypt.MinCost
	t.Cleanup(func() { PinCost = bcrypt.DefaultCost })

	hash, err := HashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.NoError(t, CheckPIN(hash, "1234"))
	assert.ErrorIs(t, CheckPIN(hash, "4321"), ErrPinMismatch)
	assert.Error(t, CheckPIN("not-a-hash", "1234"))
}
