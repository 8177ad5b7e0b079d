package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	t.Run("console output", func(t *testing.T) {
		err := Initialize(false, 0)
		require.NoError(t, err)
		assert.NotNil(t, Logger)
		assert.False(t, JSONOutput)
	})

	t.Run("json output", func(t *testing.T) {
		err := Initialize(true, 0)
		require.NoError(t, err)
		assert.NotNil(t, Logger)
		assert.True(t, JSONOutput)
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		err := Initialize(false, 2)
		require.NoError(t, err)
		assert.NotNil(t, Logger)
	})
}

func TestLoggerSafeBeforeInitialize(t *testing.T) {
	// The package-level helpers must never panic, even with the
	// package-load no-op logger
	assert.NotPanics(t, func() {
		Infow("message", "key", "value")
		Warnw("message")
		Errorw("message")
		Debugw("message")
	})
}
