package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_KeyLifecycle(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))

	_, err := m.LoadKey()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveKey("db-123"))
	key, err := m.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, "db-123", key)

	require.NoError(t, m.SaveKey("db-456"))
	key, err = m.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, "db-456", key)

	require.NoError(t, m.ClearKey())
	_, err = m.LoadKey()
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, m.ClearKey(), "clearing twice is fine")
}

func TestManager_RejectsEmptyKey(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))
	assert.Error(t, m.SaveKey(""))
}
