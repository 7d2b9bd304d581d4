package auth

import (
	"testing"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Deterministic(t *testing.T) {
	salt := common.GenerateRandByteArray(32)

	a := HashPassword("hunter2", salt)
	b := HashPassword("hunter2", salt)
	assert.Equal(t, a, b)
	assert.Len(t, a, argonKeyLen)
}

func TestHashPassword_SaltMatters(t *testing.T) {
	a := HashPassword("hunter2", common.GenerateRandByteArray(32))
	b := HashPassword("hunter2", common.GenerateRandByteArray(32))
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword(t *testing.T) {
	salt := common.GenerateRandByteArray(32)
	hash := HashPassword("correct horse", salt)

	assert.True(t, VerifyPassword("correct horse", salt, hash))
	assert.False(t, VerifyPassword("battery staple", salt, hash))
	assert.False(t, VerifyPassword("", salt, hash))
}
