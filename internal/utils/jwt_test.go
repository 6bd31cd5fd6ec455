package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showbookie/movie-booking/internal/utils"
)

func TestNewAccessToken(t *testing.T) {
	const secret = "test-secret"

	access, err := utils.NewAccessToken(secret, 131, "ada@example.com", 15)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, 5*time.Second)

	parsed, err := jwt.Parse(access.Token, func(tok *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(131), claims["sub"])
	assert.Equal(t, "ada@example.com", claims["email"])

	_, err = jwt.Parse(access.Token, func(tok *jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, utils.VerifyPassword(hash, "s3cret"))
	assert.False(t, utils.VerifyPassword(hash, "wrong"))
}
