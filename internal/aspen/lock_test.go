package aspen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	unlock, err := Lock(dir)
	require.NoError(t, err)

	_, err = Lock(dir)
	assert.ErrorIs(t, err, ErrSessionBusy)

	require.NoError(t, unlock())
	unlock2, err := Lock(dir)
	require.NoError(t, err)
	assert.NoError(t, unlock2())
}
