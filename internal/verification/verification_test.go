package verification

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/snapshot"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func saveSnapshot(t *testing.T, st *state.State, screen *display.Buffer) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.c8s")
	file, err := os.Create(path)
	assert.NoError(t, err)
	assert.NoError(t, snapshot.Save(file, st, screen))
	assert.NoError(t, file.Close())
	return path
}

func TestVerifySnapshot(t *testing.T) {
	logger := log.NewTestLogger(t)
	// mismatches are logged at error level, which fails tests using the test logger
	mismatchLogger := log.NewNop()

	st := state.New()
	st.V[4] = 0x44
	st.I = 0x300
	screen := display.New()
	screen.SetXor(10, 20)
	path := saveSnapshot(t, st, screen)

	t.Run("matching", func(t *testing.T) {
		assert.NoError(t, VerifySnapshot(logger, path, st, screen))
	})

	t.Run("register mismatch", func(t *testing.T) {
		changed := *st
		changed.V[4] = 0x45
		assert.ErrorContains(t, VerifySnapshot(mismatchLogger, path, &changed, screen), "1 offset mismatches")
	})

	t.Run("screen mismatch", func(t *testing.T) {
		changedScreen := display.New()
		assert.Error(t, VerifySnapshot(mismatchLogger, path, st, changedScreen))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, VerifySnapshot(mismatchLogger, filepath.Join(t.TempDir(), "missing.c8s"), st, screen))
	})
}

func TestCheckBufferEqual(t *testing.T) {
	assert.NoError(t, checkBufferEqual(log.NewTestLogger(t), []byte{1, 2, 3}, []byte{1, 2, 3}))

	logger := log.NewNop()
	assert.ErrorContains(t, checkBufferEqual(logger, []byte{1, 2}, []byte{1, 2, 3}), "mismatched lengths")
	assert.ErrorContains(t, checkBufferEqual(logger, []byte{1, 2, 3}, []byte{0, 2, 0}), "2 offset mismatches")
}
