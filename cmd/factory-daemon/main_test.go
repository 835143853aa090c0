package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/infrastructure/pidfile"
)

func TestRunLocked_ReleasesPIDFileOnFailure(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	var heldDuringRun bool

	// Act
	code := runLocked(pidfile.New(path), func() error {
		_, err := os.Stat(path)
		heldDuringRun = err == nil
		return errors.New("database unavailable")
	})

	// Assert
	assert.Equal(t, 1, code)
	assert.True(t, heldDuringRun)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunLocked_ReleasesPIDFileOnCleanExit(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")

	// Act
	code := runLocked(pidfile.New(path), func() error { return nil })

	// Assert
	assert.Equal(t, 0, code)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunLocked_RefusesWhenAnotherDaemonHoldsTheLock(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, pidfile.New(path).Acquire())
	called := false

	// Act
	code := runLocked(pidfile.New(path), func() error {
		called = true
		return nil
	})

	// Assert
	assert.Equal(t, 1, code)
	assert.False(t, called)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
