package dbc

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const headerSize = 8

// frameReader reads binary container frames and tracks the byte offset for
// error reports.
type frameReader struct {
	r      *bufio.Reader
	offset int64
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: bufio.NewReader(r)}
}

// read returns the next n bytes. A short stream is a header error: the file
// declared more data than it holds.
func (fr *frameReader) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(fr.r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &PositionError{
				Offset: fr.offset + int64(got),
				Err:    fmt.Errorf("%w: wanted %d bytes, stream has %d", ErrMalformedHeader, n, got),
			}
		}
		return nil, err
	}
	fr.offset += int64(n)
	return buf, nil
}

// header reads the magic and the declared record count.
func (fr *frameReader) header() (Schema, uint32, error) {
	buf, err := fr.read(headerSize)
	if err != nil {
		return SchemaUndefined, 0, err
	}
	s, ok := SchemaFromMagic(buf[:4])
	if !ok {
		return SchemaUnsupported, 0, &PositionError{
			Offset: 0,
			Err:    fmt.Errorf("%w: unknown magic %q", ErrMalformedHeader, buf[:4]),
		}
	}
	return s, binary.LittleEndian.Uint32(buf[4:8]), nil
}

// trailing reports how many bytes follow the last frame.
func (fr *frameReader) trailing() int64 {
	n, _ := io.Copy(io.Discard, fr.r)
	return n
}
