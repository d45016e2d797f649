// Package tokens estimates token counts from character counts.
//
// The estimate is a fixed heuristic (about four characters per token for
// English text) shared by the health analyzer and the compression
// evaluator. It never calls a tokenizer.
package tokens

import (
	"unicode/utf8"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

const (
	// CharsPerToken is the characters-per-token ratio of the estimate.
	CharsPerToken = 4
	// MessageOverhead approximates the role and metadata cost of a
	// structured message.
	MessageOverhead = 10
)

// Estimate returns floor(characters / CharsPerToken). Characters are
// Unicode code points, not bytes.
func Estimate(text string) int {
	return utf8.RuneCountInString(text) / CharsPerToken
}

// EstimateMessages sums the estimate over all messages, adding
// MessageOverhead for every message that is not plain.
func EstimateMessages(msgs []conversation.Message) int {
	total := 0
	for _, m := range msgs {
		total += Estimate(m.Content)
		if !m.Plain {
			total += MessageOverhead
		}
	}
	return total
}
