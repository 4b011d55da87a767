// Package properties reads and writes java-style .properties files: '#' and
// '!' comments, '=' or ':' separators, backslash line continuation, and the
// usual escape sequences. Key order is preserved on save.
package properties

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformed reports a non-comment line with no key-value separator.
var ErrMalformed = errors.New("malformed properties line")

// Properties is an ordered string-to-string table bound to an optional file
// path. Values live unescaped in memory; [Properties.Write] escapes them on
// the way out so the file stays parseable.
type Properties struct {
	path  string
	order []string
	data  map[string]string
}

// New returns an empty table with no backing file.
func New() *Properties {
	return &Properties{data: map[string]string{}}
}

// Open binds a table to path and parses it when the file exists. A missing
// file yields an empty table that [Properties.Save] will create.
func Open(path string) (*Properties, error) {
	p := New()
	p.path = path
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to open properties file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if err := p.Parse(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse replaces the table contents with the entries read from r.
func (p *Properties) Parse(r io.Reader) error {
	p.order = p.order[:0]
	clear(p.data)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimLeftFunc(sc.Text(), unicode.IsSpace)
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		i := separatorIndex(line)
		if i < 0 {
			return fmt.Errorf("%w: line %d", ErrMalformed, lineNo)
		}
		key := strings.TrimRightFunc(line[:i], unicode.IsSpace)
		val := strings.TrimLeftFunc(line[i+1:], unicode.IsSpace)
		for strings.HasSuffix(val, "\\") && sc.Scan() {
			lineNo++
			val = val[:len(val)-1] + strings.TrimLeftFunc(sc.Text(), unicode.IsSpace)
		}
		val, err := Unescape(val)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		p.put(key, val)
	}
	return sc.Err()
}

// separatorIndex finds the first '=' or ':', whichever comes earlier.
func separatorIndex(line string) int {
	a, b := strings.IndexByte(line, '='), strings.IndexByte(line, ':')
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func (p *Properties) put(key, val string) {
	if _, ok := p.data[key]; !ok {
		p.order = append(p.order, key)
	}
	p.data[key] = val
}

// Has reports whether key is present, even with an empty value.
func (p *Properties) Has(key string) bool {
	_, ok := p.data[key]
	return ok
}

// Get returns the value for key, or defaultVal when the key is missing or
// its value is empty.
func (p *Properties) Get(key, defaultVal string) string {
	v, ok := p.data[key]
	if !ok || v == "" {
		return defaultVal
	}
	return v
}

// GetInt interprets the value for key as an integer, returning defaultVal
// when the key is missing, empty, or not a valid integer.
func (p *Properties) GetInt(key string, defaultVal int) int {
	v := p.Get(key, "")
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// GetFloat interprets the value for key as a float64, returning defaultVal
// when the key is missing, empty, or not a valid number.
func (p *Properties) GetFloat(key string, defaultVal float64) float64 {
	v := p.Get(key, "")
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// GetBool interprets the value for key as a boolean, accepting "true" and
// "false" in any case, returning defaultVal otherwise.
func (p *Properties) GetBool(key string, defaultVal bool) bool {
	v, ok := p.data[key]
	if !ok {
		return defaultVal
	}
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return defaultVal
}

// Set stores value under key. Booleans become "true"/"false", strings are
// stored as given, and anything else is formatted with the fmt default verb.
func (p *Properties) Set(key string, value any) {
	switch v := value.(type) {
	case bool:
		if v {
			p.put(key, "true")
		} else {
			p.put(key, "false")
		}
	case string:
		p.put(key, v)
	default:
		p.put(key, fmt.Sprint(v))
	}
}

// Delete removes key from the table.
func (p *Properties) Delete(key string) {
	if _, ok := p.data[key]; !ok {
		return
	}
	delete(p.data, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p *Properties) Len() int {
	return len(p.data)
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	return append([]string(nil), p.order...)
}

// All iterates entries in insertion order.
func (p *Properties) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range p.order {
			if !yield(k, p.data[k]) {
				return
			}
		}
	}
}

// Write writes the table to w with values escaped, preceded by a '#'
// comment line when comment is non-empty.
func (p *Properties) Write(w io.Writer, comment string) error {
	bw := bufio.NewWriter(w)
	if comment != "" {
		if _, err := fmt.Fprintf(bw, "# %s\n", comment); err != nil {
			return err
		}
	}
	for _, k := range p.order {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", k, Escape(p.data[k])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the table back to the path it was opened with.
func (p *Properties) Save(comment string) error {
	if p.path == "" {
		return errors.New("properties table has no backing file")
	}
	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("failed to write properties file: %w", err)
	}
	if err := p.Write(f, comment); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
