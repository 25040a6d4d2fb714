package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost

	hash, err := Hash("faez123")
	require.NoError(t, err)

	assert.NotEqual(t, "faez123", hash)
	assert.True(t, IsHashed(hash))
	assert.True(t, Verify("faez123", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestIsHashed(t *testing.T) {
	assert.False(t, IsHashed("password"))
	assert.False(t, IsHashed(""))
}
