package codec

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// NameSize is the width of every fixed string field in binary frames.
const NameSize = 32

var charset = simplifiedchinese.GB18030

// NewTextReader returns a reader that decodes the GB18030 bytes of r to UTF-8.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, charset.NewDecoder())
}

// NewTextWriter returns a writer that encodes UTF-8 written to it as GB18030.
// Close must be called to flush the last bytes.
func NewTextWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, charset.NewEncoder())
}

// getString decodes a NUL padded GB18030 field.
func getString(field []byte) (string, error) {
	field = bytes.TrimRight(field, "\x00")
	s, err := charset.NewDecoder().Bytes(field)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// putString encodes s into field, truncating it on a character boundary or
// zero padding it.
func putString(field []byte, s string) error {
	b, err := charset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("encode %q: %w", s, err)
	}
	n := 0
	for n < len(b) {
		size := gbCharLen(b[n:])
		if n+size > len(field) {
			break
		}
		n += size
	}
	copy(field, b[:n])
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
	return nil
}

// gbCharLen returns the byte length of the GB18030 character starting b.
func gbCharLen(b []byte) int {
	switch {
	case b[0] < 0x80 || len(b) < 2:
		return 1
	case b[1] >= 0x30 && b[1] <= 0x39:
		return min(4, len(b))
	}
	return 2
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

// formatPercent writes a scale factor as the percentage text files use.
// The shortest form is used unless it would not read back as the same
// factor.
func formatPercent(scale float32) string {
	p := float64(scale) * 100
	s := strconv.FormatFloat(float64(float32(p)), 'f', -1, 32)
	if v, err := parsePercent(s); err != nil || v != scale {
		s = strconv.FormatFloat(p, 'f', -1, 64)
	}
	return s
}

func parsePercent(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return float32(f / 100), nil
}

// splitField splits "Key12=value" into "Key" and "value". The index suffix
// is dropped; some writers omit it.
func splitField(line string) (key, value string, ok bool) {
	k, v, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	k = strings.TrimRight(strings.TrimSpace(k), "0123456789")
	return k, strings.TrimSpace(v), true
}

// bracket returns the text between '[' and ']' of a record header line.
func bracket(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return line[1 : len(line)-1], true
}

func kv(key string, index int, value any) string {
	if index < 0 {
		return fmt.Sprintf("%s=%v", key, value)
	}
	return fmt.Sprintf("%s%d=%v", key, index, value)
}

// cursor walks the data lines of one text record.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) remaining() int {
	return len(c.lines) - c.pos
}

// has reports whether the next line carries key.
func (c *cursor) has(key string) bool {
	if c.pos >= len(c.lines) {
		return false
	}
	k, _, ok := splitField(c.lines[c.pos])
	return ok && strings.EqualFold(k, key)
}

func (c *cursor) value(key string) (string, error) {
	if c.pos >= len(c.lines) {
		return "", textError(c.pos, ErrTooFewLines, "missing %s", key)
	}
	if !c.has(key) {
		return "", textError(c.pos, ErrBadField, "expected %s, found %q", key, c.lines[c.pos])
	}
	_, v, _ := splitField(c.lines[c.pos])
	c.pos++
	return v, nil
}

func (c *cursor) readUint(key string, bits int) (uint64, error) {
	v, err := c.value(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, textError(c.pos-1, ErrBadField, "%s=%q: %v", key, v, err)
	}
	return n, nil
}

func (c *cursor) readUint32(key string) (uint32, error) {
	n, err := c.readUint(key, 32)
	return uint32(n), err
}

func (c *cursor) readUint8(key string) (uint8, error) {
	n, err := c.readUint(key, 8)
	return uint8(n), err
}

func (c *cursor) readFloat32(key string) (float32, error) {
	v, err := c.value(key)
	if err != nil {
		return 0, err
	}
	f, err := parseFloat(v)
	if err != nil {
		return 0, textError(c.pos-1, ErrBadField, "%s=%q: %v", key, v, err)
	}
	return f, nil
}

// optUint8 reads key when it is the next line, otherwise returns def
// without moving.
func (c *cursor) optUint8(key string, def uint8) (uint8, error) {
	if !c.has(key) {
		return def, nil
	}
	return c.readUint8(key)
}

// anyUint8 reads the next key=value line whatever its key, otherwise
// returns def.
func (c *cursor) anyUint8(def uint8) (uint8, error) {
	if c.pos >= len(c.lines) {
		return def, nil
	}
	line := c.lines[c.pos]
	if _, ok := bracket(line); ok {
		return def, nil
	}
	key, _, ok := splitField(line)
	if !ok {
		return def, nil
	}
	return c.readUint8(key)
}
