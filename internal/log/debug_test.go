package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}
	writer.pending = nil
	writer.discard = false
}

func TestBufferedMessagesFlushOnSetFile(t *testing.T) {
	reset()
	t.Cleanup(reset)

	Printf("early message %d", 1)

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))
	require.NoError(t, Close())

	data, err := os.ReadFile(path) // #nosec G304
	require.NoError(t, err)
	assert.Contains(t, string(data), "early message 1")
}

func TestMessagesAfterSetFileGoToFile(t *testing.T) {
	reset()
	t.Cleanup(reset)

	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))

	Println("after open")
	require.NoError(t, Close())

	data, err := os.ReadFile(path) // #nosec G304
	require.NoError(t, err)
	assert.Contains(t, string(data), "after open")
}

func TestEmptyPathDiscards(t *testing.T) {
	reset()
	t.Cleanup(reset)

	Printf("to be dropped")
	require.NoError(t, SetFile(""))
	Printf("also dropped")

	writer.mu.Lock()
	defer writer.mu.Unlock()
	assert.Nil(t, writer.pending)
	assert.True(t, writer.discard)
}

func TestCloseWithoutFileIsNil(t *testing.T) {
	reset()
	t.Cleanup(reset)

	assert.NoError(t, Close())
}
