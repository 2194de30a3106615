package utils_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snapnet/config"
	"snapnet/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-key")
	os.Setenv("REDIS_PORT", "1")
	config.Load()
	os.Exit(m.Run())
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := utils.GenerateToken(42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken(1, -time.Minute)
	require.NoError(t, err)

	_, err = utils.ParseToken(token)
	require.Error(t, err)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := utils.GenerateToken(1, time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = utils.ParseToken(tampered)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := utils.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestTokenTTLDefaultsToOneHour(t *testing.T) {
	require.Equal(t, time.Hour, utils.TokenTTL())
}

func TestBlacklistRevokesUntilExpiry(t *testing.T) {
	token, err := utils.GenerateToken(7, time.Hour)
	require.NoError(t, err)
	require.False(t, utils.IsTokenBlacklisted(token))

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	require.True(t, utils.IsTokenBlacklisted(token))
}

func TestBlacklistIgnoresAlreadyExpired(t *testing.T) {
	utils.BlacklistToken("stale-token", time.Now().Add(-time.Minute))
	require.False(t, utils.IsTokenBlacklisted("stale-token"))
}
