package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular is implemented by reports that have a table rendering.
type Tabular interface {
	Table() (headers []string, rows [][]string)
}

// Render writes v in the given format. Table output falls back to JSON
// for values that are not Tabular.
func Render(w io.Writer, format string, v any) error {
	if t, ok := v.(Tabular); ok && format == OutputTable {
		headers, rows := t.Table()
		return RenderTable(w, headers, rows)
	}
	return RenderJSON(w, v)
}

// RenderJSON writes v as indented JSON followed by a newline.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

var tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

// RenderTable writes rows under headers as a bordered table.
func RenderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Field is one entry of an OrderedMap.
type Field struct {
	Key   string
	Value any
}

// OrderedMap is a JSON object that keeps its keys in insertion order.
type OrderedMap []Field

// MarshalJSON encodes the fields as an object in slice order.
func (m OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
