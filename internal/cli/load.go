package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
)

// LoadConversation reads a message file. Files with a .jsonl extension
// are read as session transcripts; skipped lines are logged.
func LoadConversation(ctx context.Context, path string) (*conversation.Conversation, error) {
	logger := logging.FromContext(ctx)

	if !conversation.IsSession(path) {
		conv, err := conversation.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx, "conversation loaded", zap.String("path", path), zap.Int("messages", conv.Len()))
		return conv, nil
	}

	conv, stats, err := conversation.LoadSession(path)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		logger.Warn(ctx, "skipped malformed session lines",
			zap.String("path", path),
			zap.Int("skipped", stats.Skipped),
			zap.Ints("lines", stats.MalformedAt),
		)
	}
	logger.Debug(ctx, "session loaded",
		zap.String("path", path),
		zap.Int("lines", stats.Lines),
		zap.Int("messages", conv.Len()),
	)
	return conv, nil
}
