package dbc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/ssargent/dbckit/pkg/codec"
	"github.com/ssargent/dbckit/pkg/ini"
)

// Save writes the container in the format it was loaded from.
func (c *Container) Save(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(w, c.format)
}

// SaveAs writes the container in format f.
func (c *Container) SaveAs(w io.Writer, f Format) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(w, f)
}

func (c *Container) save(w io.Writer, f Format) error {
	start := time.Now()

	var err error
	if f == Binary {
		err = c.saveBinary(w)
	} else {
		err = c.saveText(w)
	}

	c.metrics.RecordSave(c.schema, f, err, time.Since(start))
	if err != nil {
		return err
	}
	c.logger.Debug("container saved", "format", f.String(), "records", len(c.keys), "duration", time.Since(start))
	return nil
}

func (c *Container) saveBinary(w io.Writer) error {
	magic, ok := c.schema.Magic()
	if !ok {
		return fmt.Errorf("%w: %s has no binary tag", ErrUnsupported, c.schema)
	}

	bw := bufio.NewWriter(w)
	var header [headerSize]byte
	copy(header[:4], magic)
	binary.LittleEndian.PutUint32(header[4:], uint32(len(c.keys)))
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, k := range c.keys {
		frame, err := c.codec.EncodeBinary(c.records[k])
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		if _, err := bw.Write(frame); err != nil {
			return fmt.Errorf("write %s: %w", k, err)
		}
	}
	return bw.Flush()
}

// textLines renders the whole container as text lines.
func (c *Container) textLines() ([]string, error) {
	var lines []string

	if c.schema == SchemaMaterial {
		lines = append(lines, ini.Comment(c.leading)...)
		lines = append(lines, fmt.Sprintf("Material=%d", len(c.keys)))
		for _, k := range c.keys {
			rec, err := c.codec.EncodeText(c.records[k])
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", k, err)
			}
			lines = append(lines, rec...)
		}
		lines = append(lines, ini.Comment(c.trailing)...)
		return lines, nil
	}

	if c.leading != "" {
		lines = append(lines, ini.Comment(c.leading)...)
		lines = append(lines, "")
	}
	for _, k := range c.keys {
		rec, err := c.codec.EncodeText(c.records[k])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		lines = append(lines, rec...)
		lines = append(lines, "")
	}
	lines = append(lines, ini.Comment(c.trailing)...)
	return lines, nil
}

func (c *Container) saveText(w io.Writer) error {
	lines, err := c.textLines()
	if err != nil {
		return err
	}

	tw := codec.NewTextWriter(w)
	bw := bufio.NewWriter(tw)
	for _, l := range lines {
		if _, err := bw.WriteString(l + ini.LineBreak); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	if _, err := bw.WriteString(ini.LineBreak); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return tw.Close()
}
