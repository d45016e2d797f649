package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/ctxeng/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConversation_JSON(t *testing.T) {
	path := writeFile(t, "conv.json", `[{"role": "user", "content": "hi"}, "bare"]`)

	conv, err := LoadConversation(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, conv.Len())
	assert.Equal(t, "hi", conv.Messages[0].Content)
	assert.True(t, conv.Messages[1].Plain)
}

func TestLoadConversation_Session(t *testing.T) {
	path := writeFile(t, "session.jsonl",
		`{"type":"user","message":{"role":"user","content":"fix the build"}}`+"\n"+
			`not json`+"\n"+
			`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"done"}]}}`+"\n")

	logger := logging.NewTestLogger()
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	conv, err := LoadConversation(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 2, conv.Len())
	assert.Equal(t, "done", conv.Messages[1].Content)

	logger.AssertLogged(t, zapcore.WarnLevel, "skipped malformed session lines")
	logger.AssertField(t, "skipped malformed session lines", "skipped", int64(1))
}

func TestLoadConversation_Errors(t *testing.T) {
	_, err := LoadConversation(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConversation(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, "bad.json", `{"messages": [`)
	_, err = LoadConversation(context.Background(), bad)
	assert.Error(t, err)
}
