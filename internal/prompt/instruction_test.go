package prompt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileInstructionCachesUntilInvalidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruction.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	f := NewFileInstruction(path)
	got, err := f.Instruction(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1", got)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	got, _ = f.Instruction(context.Background())
	require.Equal(t, "v1", got, "cached value expected before invalidation")

	f.Invalidate()
	got, _ = f.Instruction(context.Background())
	require.Equal(t, "v2", got)
}

func TestFileInstructionMissingFile(t *testing.T) {
	f := NewFileInstruction(filepath.Join(t.TempDir(), "nope.txt"))
	_, err := f.Instruction(context.Background())
	require.Error(t, err)
}

func TestFileInstructionWatchPicksUpEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruction.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o644))

	f := NewFileInstruction(path)
	require.NoError(t, f.Watch())
	defer f.Close()

	got, err := f.Instruction(context.Background())
	require.NoError(t, err)
	require.Equal(t, "before", got)

	require.NoError(t, os.WriteFile(path, []byte("after"), 0o644))
	require.Eventually(t, func() bool {
		s, err := f.Instruction(context.Background())
		return err == nil && s == "after"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestStaticInstruction(t *testing.T) {
	s, err := StaticInstruction("rules").Instruction(context.Background())
	require.NoError(t, err)
	require.Equal(t, "rules", s)
}
