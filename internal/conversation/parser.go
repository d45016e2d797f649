package conversation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

const (
	// maxScanTokenSize bounds a single JSONL line.
	maxScanTokenSize = 10 * 1024 * 1024
	// maxRecordedMalformed limits how many malformed line numbers are kept.
	maxRecordedMalformed = 10
)

// Parse decodes a message list, or an object with a "messages" key, from
// JSON or JSONC.
func Parse(data []byte) (*Conversation, error) {
	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("messages")
		if !list.Exists() {
			return &Conversation{Messages: []Message{}, Raw: []byte("[]")}, nil
		}
	}
	if !list.IsArray() {
		return nil, ErrInvalidStructure
	}

	msgs := make([]Message, 0)
	list.ForEach(func(_, value gjson.Result) bool {
		msgs = append(msgs, messageFrom(value))
		return true
	})

	return &Conversation{Messages: msgs, Raw: encodeList(list)}, nil
}

// messageFrom converts one array entry into a Message.
func messageFrom(v gjson.Result) Message {
	switch {
	case v.Type == gjson.String:
		return Message{Content: v.Str, Plain: true}
	case v.IsObject():
		// null content is "", not "None". Structured content is JSON text.
		// Both only shift the token estimate slightly.
		return Message{
			Role:    Role(v.Get("role").String()),
			Content: contentOf(v.Get("content")),
		}
	default:
		return Message{Content: string(compact(v.Raw)), Plain: true}
	}
}

// contentOf stringifies a content value. Strings are taken verbatim, other
// JSON values as compact JSON text.
func contentOf(c gjson.Result) string {
	switch {
	case !c.Exists(), c.Type == gjson.Null:
		return ""
	case c.Type == gjson.String:
		return c.Str
	default:
		return string(compact(c.Raw))
	}
}

// ParseSession reads an agent session JSONL transcript. Only user and assistant
// events are kept. Malformed lines are skipped and reported in the stats.
func ParseSession(r io.Reader) (*Conversation, SessionStats, error) {
	var stats SessionStats

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)

	msgs := make([]Message, 0)
	for scanner.Scan() {
		stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			stats.Skipped++
			if len(stats.MalformedAt) < maxRecordedMalformed {
				stats.MalformedAt = append(stats.MalformedAt, stats.Lines)
			}
			continue
		}

		event := gjson.Parse(line)
		kind := event.Get("type").String()
		if kind != string(RoleUser) && kind != string(RoleAssistant) {
			continue
		}

		msg, ok := sessionMessage(Role(kind), event.Get("message"))
		if ok {
			msgs = append(msgs, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scanning session: %w", err)
	}

	return &Conversation{Messages: msgs, Raw: encodeRaw(msgs)}, stats, nil
}

// sessionMessage extracts role and text from a transcript "message" value.
// Empty messages are dropped.
func sessionMessage(fallback Role, m gjson.Result) (Message, bool) {
	role := fallback
	if r := m.Get("role").String(); r != "" {
		role = Role(r)
	}

	var content string
	switch {
	case m.Type == gjson.String:
		content = m.Str
	case m.Get("content").Type == gjson.String:
		content = m.Get("content").Str
	case m.Get("content").IsArray():
		content = blockText(m.Get("content"))
	}

	if content == "" {
		return Message{}, false
	}
	return Message{Role: role, Content: content}, true
}

// blockText joins text and tool_result blocks with newlines.
func blockText(blocks gjson.Result) string {
	var parts []string
	blocks.ForEach(func(_, block gjson.Result) bool {
		switch block.Get("type").String() {
		case "text":
			if t := block.Get("text").String(); t != "" {
				parts = append(parts, t)
			}
		case "tool_result":
			c := block.Get("content")
			if c.Type == gjson.String {
				if c.Str != "" {
					parts = append(parts, c.Str)
				}
			} else if c.IsArray() {
				if t := blockText(c); t != "" {
					parts = append(parts, t)
				}
			}
		}
		return true
	})
	return strings.Join(parts, "\n")
}

// Load reads and parses a JSON or JSONC message file.
func Load(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	conv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return conv, nil
}

// LoadSession reads an agent session JSONL transcript from disk.
func LoadSession(path string) (*Conversation, SessionStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SessionStats{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	conv, stats, err := ParseSession(f)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return conv, stats, nil
}

// IsSession reports whether path names a JSONL session transcript.
func IsSession(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".jsonl")
}

// ReadText reads a text file. Invalid UTF-8 sequences are replaced with
// U+FFFD rather than rejected.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	}
	return string(data), nil
}

// compact strips insignificant whitespace from valid JSON. Input that fails
// to compact is returned unchanged.
func compact(raw string) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return []byte(raw)
	}
	return buf.Bytes()
}
