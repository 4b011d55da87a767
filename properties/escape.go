package properties

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var unescapeMap = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// Unescape expands backslash escapes: the single-character set above
// (case-insensitive), octal \NNN up to three digits, hex \xNN, and unicode
// \uNNNN. A backslash before any other character drops the backslash.
func Unescape(src string) (string, error) {
	if !strings.ContainsRune(src, '\\') {
		return src, nil
	}
	var sb strings.Builder
	i := 0
	for {
		j := strings.IndexByte(src[i:], '\\')
		if j < 0 {
			break
		}
		j += i
		sb.WriteString(src[i:j])
		if j+1 >= len(src) {
			return "", fmt.Errorf("truncated escape at end of %q", src)
		}
		next, err := unescapeChar(src, j+1, &sb)
		if err != nil {
			return "", err
		}
		i = next
	}
	sb.WriteString(src[i:])
	return sb.String(), nil
}

func unescapeChar(src string, i int, sb *strings.Builder) (int, error) {
	c := src[i]
	t := c
	if 'A' <= t && t <= 'Z' {
		t += 'a' - 'A'
	}
	if r, ok := unescapeMap[t]; ok {
		sb.WriteByte(r)
		return i + 1, nil
	}
	if '0' <= t && t <= '7' {
		j := i + 1
		for j < i+3 && j < len(src) && '0' <= src[j] && src[j] <= '7' {
			j++
		}
		n, err := strconv.ParseUint(src[i:j], 8, 32)
		if err != nil {
			return 0, fmt.Errorf("bad octal escape %q: %w", src[i:j], err)
		}
		sb.WriteRune(rune(n))
		return j, nil
	}
	if t == 'x' {
		n, j, err := hexValue(src, i+1, 2)
		if err != nil {
			return 0, err
		}
		sb.WriteRune(rune(n))
		return j, nil
	}
	if t == 'u' {
		n, j, err := hexValue(src, i+1, 4)
		if err != nil {
			return 0, err
		}
		r := rune(n)
		// A surrogate pair written as two \u escapes decodes to one rune.
		if utf16.IsSurrogate(r) && j+6 <= len(src) && src[j] == '\\' && (src[j+1] == 'u' || src[j+1] == 'U') {
			if n2, j2, err2 := hexValue(src, j+2, 4); err2 == nil {
				if combined := utf16.DecodeRune(r, rune(n2)); combined != utf8.RuneError {
					sb.WriteRune(combined)
					return j2, nil
				}
			}
		}
		sb.WriteRune(r)
		return j, nil
	}
	sb.WriteByte(c)
	return i + 1, nil
}

func hexValue(src string, i, width int) (uint64, int, error) {
	j := i + width
	if j > len(src) {
		return 0, 0, fmt.Errorf("truncated hex escape at end of %q", src)
	}
	n, err := strconv.ParseUint(src[i:j], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad hex escape %q: %w", src[i:j], err)
	}
	return n, j, nil
}

var escapeMap = map[rune]byte{
	'\a': 'a',
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\v': 'v',
	'\\': '\\',
}

// Escape renders src using only printable ASCII, escaping everything else.
// Runes above the basic plane become surrogate pairs, matching how java
// writes them.
func Escape(src string) string {
	if asciiPrintable(src) {
		return src
	}
	var sb strings.Builder
	for _, r := range src {
		if r >= 0x20 && r < 0x7f && r != '\\' {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('\\')
		if e, ok := escapeMap[r]; ok {
			sb.WriteByte(e)
			continue
		}
		switch {
		case r <= 0xff:
			fmt.Fprintf(&sb, "x%02x", r)
		case r <= 0xffff:
			fmt.Fprintf(&sb, "u%04x", r)
		default:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, "u%04x\\u%04x", hi, lo)
		}
	}
	return sb.String()
}

func asciiPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f || s[i] == '\\' {
			return false
		}
	}
	return true
}
