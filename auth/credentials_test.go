package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretEqual_Match(t *testing.T) {
	assert.True(t, SecretEqual([]byte("hunter2"), []byte("hunter2")))
}

func TestSecretEqual_Mismatch(t *testing.T) {
	assert.False(t, SecretEqual([]byte("hunter2"), []byte("hunter3")))
}

func TestSecretEqual_LengthMismatch(t *testing.T) {
	assert.False(t, SecretEqual([]byte("hunter2"), []byte("hunter22")))
	assert.False(t, SecretEqual([]byte("hunter22"), []byte("hunter2")))
}

func TestSecretEqual_PrefixIsNotEnough(t *testing.T) {
	assert.False(t, SecretEqual([]byte("hun"), []byte("hunter2")))
}

func TestSecretEqual_EmptyInputs(t *testing.T) {
	assert.True(t, SecretEqual(nil, nil))
	assert.True(t, SecretEqual([]byte{}, []byte{}))
	assert.False(t, SecretEqual([]byte(""), []byte("x")))
	assert.False(t, SecretEqual([]byte("x"), []byte("")))
}

func TestSecretEqual_BinaryBytes(t *testing.T) {
	a := []byte{0x00, 0xff, 0x10}
	b := []byte{0x00, 0xff, 0x10}
	assert.True(t, SecretEqual(a, b))

	b[2] ^= 0x01
	assert.False(t, SecretEqual(a, b))
}
