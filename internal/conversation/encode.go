package conversation

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/tidwall/gjson"
)

const hexDigits = "0123456789abcdef"

// appendValue renders a parsed JSON value in the spaced, ASCII-only form
// that Python's json.dumps emits by default: ", " between items, ": " after
// keys, and every character outside printable ASCII escaped as \uXXXX.
// Compression ratios are measured against this text.
func appendValue(dst []byte, v gjson.Result) []byte {
	switch {
	case v.IsArray():
		dst = append(dst, '[')
		first := true
		v.ForEach(func(_, item gjson.Result) bool {
			if !first {
				dst = append(dst, ", "...)
			}
			first = false
			dst = appendValue(dst, item)
			return true
		})
		return append(dst, ']')
	case v.IsObject():
		dst = append(dst, '{')
		first := true
		v.ForEach(func(key, item gjson.Result) bool {
			if !first {
				dst = append(dst, ", "...)
			}
			first = false
			dst = appendString(dst, key.Str)
			dst = append(dst, ": "...)
			dst = appendValue(dst, item)
			return true
		})
		return append(dst, '}')
	}

	switch v.Type {
	case gjson.String:
		return appendString(dst, v.Str)
	case gjson.Number:
		return appendNumber(dst, v)
	case gjson.True:
		return append(dst, "true"...)
	case gjson.False:
		return append(dst, "false"...)
	default:
		return append(dst, "null"...)
	}
}

// appendNumber keeps integers as written and renders fractions and
// exponents as a float, always with a fractional part or exponent.
func appendNumber(dst []byte, v gjson.Result) []byte {
	raw := strings.TrimSpace(v.Raw)
	if !strings.ContainsAny(raw, ".eE") {
		if strings.Trim(raw, "-0") == "" {
			return append(dst, '0')
		}
		return append(dst, raw...)
	}

	f := v.Float()
	exp := 0
	if f != 0 {
		mant := strconv.FormatFloat(f, 'e', -1, 64)
		exp, _ = strconv.Atoi(mant[strings.IndexByte(mant, 'e')+1:])
	}
	if exp < -4 || exp >= 16 {
		return strconv.AppendFloat(dst, f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return append(dst, s...)
}

// appendString quotes s, escaping everything outside printable ASCII.
// Characters beyond the BMP become UTF-16 surrogate pairs.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch r {
		case '"':
			dst = append(dst, `\"`...)
		case '\\':
			dst = append(dst, `\\`...)
		case '\n':
			dst = append(dst, `\n`...)
		case '\r':
			dst = append(dst, `\r`...)
		case '\t':
			dst = append(dst, `\t`...)
		case '\b':
			dst = append(dst, `\b`...)
		case '\f':
			dst = append(dst, `\f`...)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				dst = append(dst, byte(r))
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				dst = appendEscape(appendEscape(dst, hi), lo)
			default:
				dst = appendEscape(dst, r)
			}
		}
	}
	return append(dst, '"')
}

func appendEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}

// encodeList renders the array value list.
func encodeList(list gjson.Result) []byte {
	return appendValue(make([]byte, 0, len(list.Raw)+len(list.Raw)/4), list)
}

// encodeRaw renders messages as a JSON array. Plain messages become bare
// strings, the rest role/content objects.
func encodeRaw(msgs []Message) []byte {
	dst := []byte{'['}
	for i, m := range msgs {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		if m.Plain {
			dst = appendString(dst, m.Content)
			continue
		}
		dst = append(dst, `{"role": `...)
		dst = appendString(dst, string(m.Role))
		dst = append(dst, `, "content": `...)
		dst = appendString(dst, m.Content)
		dst = append(dst, '}')
	}
	return append(dst, ']')
}
