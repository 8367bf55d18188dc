// Package verification verifies that a saved snapshot recreates the machine state.
package verification

import (
	"bytes"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/snapshot"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/log"
)

// VerifySnapshot verifies that the snapshot file restores the exact given
// state and screen content. The file is loaded into a fresh machine which is
// then saved again and compared byte by byte against the expected snapshot.
func VerifySnapshot(logger *log.Logger, path string, st *state.State, screen *display.Buffer) error {
	var expected bytes.Buffer
	if err := snapshot.Save(&expected, st, screen); err != nil {
		return fmt.Errorf("saving expected snapshot: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot file for comparison: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	restored := state.New()
	restoredScreen := display.New()
	if err := snapshot.Load(file, restored, restoredScreen); err != nil {
		return fmt.Errorf("loading snapshot for comparison: %w", err)
	}

	var actual bytes.Buffer
	if err := snapshot.Save(&actual, restored, restoredScreen); err != nil {
		return fmt.Errorf("saving restored snapshot: %w", err)
	}

	if err := checkBufferEqual(logger, expected.Bytes(), actual.Bytes()); err != nil {
		return fmt.Errorf("snapshot mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
