package command

import (
	"strings"
)

// reader walks a command line one token at a time. Tokens are separated by
// runs of spaces; the cursor always rests on the start of the next token.
type reader struct {
	s   string
	pos int
}

func newReader(line string) *reader {
	r := &reader{s: line}
	r.skipSpaces()
	return r
}

func (r *reader) canRead() bool {
	return r.pos < len(r.s)
}

func (r *reader) skipSpaces() {
	for r.pos < len(r.s) && r.s[r.pos] == ' ' {
		r.pos++
	}
}

// readToken consumes up to the next space and leaves the cursor on the
// following token.
func (r *reader) readToken() string {
	start := r.pos
	for r.pos < len(r.s) && r.s[r.pos] != ' ' {
		r.pos++
	}
	tok := r.s[start:r.pos]
	r.skipSpaces()
	return tok
}

// readQuoted consumes either a double-quoted string with \" and \\ escapes
// or, when the next rune is not a quote, a plain token.
func (r *reader) readQuoted() (string, error) {
	if !r.canRead() || r.s[r.pos] != '"' {
		return r.readToken(), nil
	}
	start := r.pos
	r.pos++
	var sb strings.Builder
	escaped := false
	for r.pos < len(r.s) {
		c := r.s[r.pos]
		r.pos++
		if escaped {
			switch c {
			case '"', '\\':
				sb.WriteByte(c)
			default:
				return "", &ParseError{
					Err:    ErrInvalidArgument,
					Pos:    r.pos - 1,
					Detail: "invalid escape sequence \\" + string(c) + " in quoted string",
				}
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			if r.pos < len(r.s) && r.s[r.pos] != ' ' {
				return "", &ParseError{
					Err:    ErrInvalidArgument,
					Pos:    r.pos,
					Detail: "expected a space after the closing quote",
				}
			}
			r.skipSpaces()
			return sb.String(), nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", &ParseError{
		Err:    ErrInvalidArgument,
		Pos:    start,
		Detail: "unterminated quoted string",
	}
}

// readRemaining consumes everything left on the line.
func (r *reader) readRemaining() string {
	rest := r.s[r.pos:]
	r.pos = len(r.s)
	return rest
}
