package dbc

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssargent/dbckit/pkg/codec"
	"github.com/ssargent/dbckit/pkg/ini"
)

// Info describes a container without decoding its records.
type Info struct {
	Binary bool   `json:"binary" yaml:"binary"`
	Schema Schema `json:"schema" yaml:"schema"`
	// Amount is the declared record count: the binary header field, the
	// Material= value, or the value on the line after a text block title.
	Amount uint32 `json:"amount" yaml:"amount"`
}

func (i Info) Format() Format {
	if i.Binary {
		return Binary
	}
	return Text
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s (%d records)", i.Format(), i.Schema, i.Amount)
}

// Sniff identifies the schema and format of the container in r. It consumes
// r. An empty stream reports SchemaUndefined; an unknown binary magic or
// text that matches no known layout reports SchemaUnsupported.
func Sniff(r io.Reader) (Info, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(headerSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return Info{}, fmt.Errorf("sniff: %w", err)
	}
	if len(head) == 0 {
		return Info{Schema: SchemaUndefined}, nil
	}
	if len(head) == headerSize {
		if s, ok := SchemaFromMagic(head[:4]); ok {
			return Info{Binary: true, Schema: s, Amount: binary.LittleEndian.Uint32(head[4:8])}, nil
		}
		if !isText(head) {
			return Info{Binary: true, Schema: SchemaUnsupported}, nil
		}
	}

	return sniffText(br)
}

func sniffText(r io.Reader) (Info, error) {
	sc := bufio.NewScanner(codec.NewTextReader(r))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		state = ini.NotComment
		title string
		inRec bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		state = ini.Classify(line, state)
		if state.IsComment() {
			continue
		}

		if inRec {
			s, n := blockSchema(title, line)
			return Info{Schema: s, Amount: n}, nil
		}
		if t, ok := strings.CutPrefix(line, "["); ok && strings.HasSuffix(t, "]") {
			title, inRec = strings.TrimSuffix(t, "]"), true
			continue
		}
		return Info{Schema: lineSchema(line), Amount: materialAmount(line)}, nil
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Info{Schema: SchemaUnsupported}, nil
		}
		return Info{}, fmt.Errorf("sniff: %w", err)
	}
	if inRec {
		return Info{Schema: SchemaUnsupported}, nil
	}
	return Info{Schema: SchemaUndefined}, nil
}

// blockSchema classifies a [title] block by its first data line and returns
// the amount that line declares.
func blockSchema(title, line string) (Schema, uint32) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return SchemaUnsupported, 0
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return SchemaUnsupported, 0
	}
	key = strings.TrimSpace(key)

	if strings.EqualFold(key, "Amount") {
		return SchemaEffect, uint32(n)
	}
	if !isDigits(strings.TrimSpace(title)) {
		return SchemaUnsupported, 0
	}
	switch {
	case strings.EqualFold(key, "Part"):
		return SchemaMesh, uint32(n)
	case strings.EqualFold(key, "Count"):
		return SchemaRoleParts, uint32(n)
	case strings.EqualFold(key, "PartAmount"):
		return SchemaSimpleObject, uint32(n)
	}
	return SchemaUnsupported, 0
}

// lineSchema classifies a file whose first data line is not a block title.
func lineSchema(line string) Schema {
	if key, _, ok := strings.Cut(line, "="); ok {
		key = strings.TrimSpace(key)
		if key == "Material" {
			return SchemaMaterial
		}
		if isDigits(strings.ReplaceAll(key, ".", "")) {
			return SchemaResourceStrings
		}
		return SchemaUnsupported
	}

	fields := strings.Fields(line)
	if len(fields) == 2 && isDigits(fields[0]) {
		return SchemaEmotionIcon
	}
	return SchemaUnsupported
}

func materialAmount(line string) uint32 {
	n, err := parseMaterialHeader(line)
	if err != nil {
		return 0
	}
	return n
}

// isText reports whether head holds no control bytes other than tab, CR and
// LF. Binary headers carry a little-endian count, which almost always has a
// zero byte.
func isText(head []byte) bool {
	for _, b := range head {
		if (b < 0x20 && b != '\t' && b != '\r' && b != '\n') || b == 0x7F {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
