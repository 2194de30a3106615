package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"snapnet/utils"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("secret12")
	require.NoError(t, err)
	require.NotEqual(t, "secret12", hash)

	require.True(t, utils.CheckPassword(hash, "secret12"))
	require.False(t, utils.CheckPassword(hash, "secret13"))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := utils.HashPassword("secret12")
	require.NoError(t, err)
	h2, err := utils.HashPassword("secret12")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
