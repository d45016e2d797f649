// Package conversation loads the conversations that the ctxeng analyzers
// consume.
//
// A conversation is an ordered list of role/content messages. Order matters:
// the health analyzer classifies each message by its relative position in the
// context window.
//
// # Input formats
//
// Parse accepts either a JSON array of messages or an object whose "messages"
// key holds that array. Each entry may be a {"role", "content"} record or a
// bare string. JSONC comments and trailing commas are tolerated.
//
//	[{"role": "user", "content": "fix the login bug"}, "plain note"]
//	{"messages": [{"role": "assistant", "content": {"text": "ok"}}]}
//
// Non-string content is kept as its compact JSON text.
//
// ParseSession reads agent session transcripts (JSONL, one event per
// line). Text and tool_result blocks become message content; other event
// types are skipped. Malformed lines are counted and skipped rather than
// failing the whole transcript.
//
// IsSession tells the two formats apart by extension (".jsonl" means session).
package conversation
