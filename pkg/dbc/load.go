package dbc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ssargent/dbckit/pkg/codec"
	"github.com/ssargent/dbckit/pkg/ini"
)

// Load replaces the contents of the container with the records read from r.
// On a fatal error the container is left empty.
func (c *Container) Load(r io.Reader, f Format) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	c.reset()
	c.format = f

	var err error
	if f == Binary {
		err = c.loadBinary(r)
	} else {
		err = c.loadText(r)
	}
	if err != nil {
		c.reset()
	}

	c.metrics.RecordLoad(c.schema, f, len(c.keys), err, time.Since(start))
	if err != nil {
		return err
	}

	c.logger.Debug("container loaded",
		"format", f.String(),
		"declared", c.declared,
		"records", len(c.keys),
		"skipped", c.skipped,
		"duration", time.Since(start))
	return nil
}

func (c *Container) loadBinary(r io.Reader) error {
	fr := newFrameReader(r)

	schema, amount, err := fr.header()
	if err != nil {
		return err
	}
	if schema != c.schema {
		return &PositionError{Offset: 0, Err: fmt.Errorf("%w: file is %s, container is %s", ErrSchemaMismatch, schema, c.schema)}
	}
	c.declared = amount

	for i := uint32(0); i < amount; i++ {
		frameStart := fr.offset

		prefix, err := fr.read(c.codec.PrefixSize())
		if err != nil {
			return err
		}
		size, err := c.codec.FrameSize(prefix)
		if err != nil {
			return frameFailure(frameStart, err)
		}
		rest, err := fr.read(size - len(prefix))
		if err != nil {
			return err
		}

		rec, err := c.codec.DecodeBinary(append(prefix, rest...))
		if err != nil {
			return frameFailure(frameStart, err)
		}
		c.add(rec)
	}

	if n := fr.trailing(); n > 0 {
		c.logger.Warn("ignoring bytes after last record", "offset", fr.offset, "bytes", n)
	}
	return nil
}

func frameFailure(frameStart int64, err error) error {
	var re *codec.RecordError
	if errors.As(err, &re) && re.Offset >= 0 {
		return &PositionError{Offset: frameStart + int64(re.Offset), Err: err}
	}
	return &PositionError{Offset: frameStart, Err: err}
}

// add stores a freshly decoded record. Later records win over earlier ones
// with the same key.
func (c *Container) add(rec codec.Record) {
	if c.put(rec) {
		c.logger.Debug("duplicate key replaced", "key", rec.Key().String())
	}
}

func (c *Container) skip(line int, err error) {
	c.skipped++
	c.metrics.RecordSkipped(c.schema)
	c.logger.Warn("skipping line", "line", line, "err", err)
}

// textLine is a data line and its 0-based position in the file.
type textLine struct {
	no   int
	text string
}

func readLines(r io.Reader) ([]string, error) {
	b, err := io.ReadAll(codec.NewTextReader(r))
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return ini.SplitLines(string(b)), nil
}

func (c *Container) loadText(r io.Reader) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}
	if c.schema == SchemaMaterial {
		return c.loadMaterialText(lines)
	}
	return c.loadBlockText(lines)
}

func joinComment(lines []string) string {
	return strings.Join(ini.TrimBlank(lines), ini.LineBreak)
}

// loadMaterialText reads the one-line-per-record Material form. Lines the
// codec rejects as skippable are dropped and counted.
func (c *Container) loadMaterialText(lines []string) error {
	var (
		pending []string
		header  bool
		state   = ini.NotComment
	)

	for i, raw := range lines {
		state = ini.Classify(strings.TrimSpace(raw), state)
		if state.IsComment() {
			pending = append(pending, raw)
			continue
		}

		if !header {
			amount, err := parseMaterialHeader(raw)
			if err != nil {
				return &PositionError{Line: i + 1, Err: err}
			}
			c.declared = amount
			c.leading = joinComment(pending)
			pending = nil
			header = true
			continue
		}

		rec, _, err := c.codec.DecodeText(lines, i)
		if err != nil {
			if codec.IsSkippable(err) {
				c.skip(i+1, err)
				continue
			}
			return &PositionError{Line: i + 1, Err: err}
		}
		rec.SetComment(joinComment(pending))
		pending = nil
		c.add(rec)
	}

	if !header {
		return &PositionError{Line: len(lines) + 1, Err: fmt.Errorf("%w: missing Material= line", ErrMalformedHeader)}
	}
	c.trailing = joinComment(pending)
	return nil
}

func parseMaterialHeader(line string) (uint32, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok || strings.TrimSpace(key) != "Material" {
		return 0, fmt.Errorf("%w: expected Material=<count>, found %q", ErrMalformedHeader, line)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: material count %q: %v", ErrMalformedHeader, value, err)
	}
	return uint32(n), nil
}

// recordBlock is one bracketed record with the comments written above it.
type recordBlock struct {
	comment []string
	data    []textLine
}

// loadBlockText reads the bracketed Mesh and Effect forms.
func (c *Container) loadBlockText(lines []string) error {
	var (
		blocks  []*recordBlock
		current *recordBlock
		pending []string
		state   = ini.NotComment
	)

	for i, raw := range lines {
		state = ini.Classify(strings.TrimSpace(raw), state)
		if state.IsComment() {
			pending = append(pending, raw)
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(raw), "[") {
			if len(blocks) == 0 {
				// the block above the first record is split between the
				// file and the record at its last blank line
				head, tail := ini.SplitAtLastBlank(pending)
				c.leading = strings.Join(head, ini.LineBreak)
				pending = tail
			}
			current = &recordBlock{comment: ini.TrimBlank(pending)}
			blocks = append(blocks, current)
			pending = nil
		} else if current == nil {
			c.skip(i+1, fmt.Errorf("data line before first record: %q", raw))
			continue
		} else if len(pending) > 0 {
			// comments between data lines stay with their record
			current.comment = append(current.comment, ini.TrimBlank(pending)...)
			pending = nil
		}
		current.data = append(current.data, textLine{no: i, text: raw})
	}

	if len(blocks) == 0 {
		c.leading = joinComment(pending)
	} else {
		c.trailing = joinComment(pending)
	}
	c.declared = uint32(len(blocks))

	for _, b := range blocks {
		data := make([]string, len(b.data))
		for i, l := range b.data {
			data[i] = l.text
		}

		rec, next, err := c.codec.DecodeText(data, 0)
		if err != nil {
			return &PositionError{Line: blockLine(b, err), Err: err}
		}
		for _, extra := range b.data[next:] {
			c.skip(extra.no+1, fmt.Errorf("unexpected line in record %s: %q", rec.Key(), extra.text))
		}

		rec.SetComment(strings.Join(b.comment, ini.LineBreak))
		c.add(rec)
	}
	return nil
}

// blockLine maps a codec error position inside a block to a file line.
func blockLine(b *recordBlock, err error) int {
	idx := 0
	var re *codec.RecordError
	if errors.As(err, &re) && re.Line >= 0 {
		idx = re.Line
	}
	if idx >= len(b.data) {
		// ran out of lines: report the line after the block
		return b.data[len(b.data)-1].no + 2
	}
	return b.data[idx].no + 1
}
