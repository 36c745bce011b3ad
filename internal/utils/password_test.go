package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invobook/invoicing_app/internal/utils"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passphrase", hash)

	assert.True(t, utils.CheckPasswordHash("s3cret-passphrase", hash))
	assert.False(t, utils.CheckPasswordHash("wrong", hash))
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, utils.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}
