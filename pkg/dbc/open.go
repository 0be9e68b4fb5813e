package dbc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Open sniffs the container in r and loads it with the matching codec.
func Open(r io.Reader, opts ...Option) (*Container, Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read container: %w", err)
	}

	info, err := Sniff(bytes.NewReader(data))
	if err != nil {
		return nil, info, err
	}
	switch info.Schema {
	case SchemaUndefined:
		return nil, info, ErrUndefined
	case SchemaUnsupported:
		return nil, info, ErrUnsupported
	}

	c, err := New(info.Schema, append(opts, WithFormat(info.Format()))...)
	if err != nil {
		return nil, info, err
	}
	if err := c.Load(bytes.NewReader(data), info.Format()); err != nil {
		return nil, info, err
	}
	return c, info, nil
}

// OpenFile opens the container stored at path.
func OpenFile(path string, opts ...Option) (*Container, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, err
	}
	defer f.Close()

	c, info, err := Open(f, opts...)
	if err != nil {
		return nil, info, fmt.Errorf("%s: %w", path, err)
	}
	return c, info, nil
}

// SaveFile writes c to path in format f. The file is written to a temporary
// name first and renamed into place.
func SaveFile(c *Container, path string, f Format) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := c.SaveAs(tmp, f); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
