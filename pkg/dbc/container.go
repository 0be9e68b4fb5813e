// Package dbc loads and saves dbc asset containers in their binary and text
// forms.
//
// A Container owns an ordered collection of records of one schema. Every
// Load, Save and accessor call holds the container's lock for its whole
// duration, so overlapping calls on one container are serialized.
package dbc

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ssargent/dbckit/pkg/codec"
)

// Container holds the records of one dbc file.
type Container struct {
	mu sync.Mutex

	schema   Schema
	format   Format
	codec    codec.Codec
	declared uint32

	leading  string
	trailing string

	keys    []codec.Key
	records map[codec.Key]codec.Record
	skipped int

	logger  *slog.Logger
	metrics *Metrics
}

type options struct {
	logger    *slog.Logger
	metrics   *Metrics
	registry  *Registry
	materials codec.MaterialTable
	format    Format
}

// Option configures a Container.
type Option func(*options)

// WithLogger sets the logger for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records load and save metrics to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRegistry selects codecs from r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithMaterials resolves Mesh material indices through t.
func WithMaterials(t codec.MaterialTable) Option {
	return func(o *options) { o.materials = t }
}

// WithFormat sets the format Save writes before anything is loaded.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// New creates an empty container for schema. It fails with ErrUnsupported
// when no codec is registered for the schema.
func New(schema Schema, opts ...Option) (*Container, error) {
	o := options{format: Binary}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	factory, ok := o.registry.Lookup(schema)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, schema)
	}

	return &Container{
		schema:  schema,
		format:  o.format,
		codec:   factory(CodecConfig{Materials: o.materials}),
		records: make(map[codec.Key]codec.Record),
		logger:  o.logger.With("schema", schema.String()),
		metrics: o.metrics,
	}, nil
}

// Schema returns the record schema of the container.
func (c *Container) Schema() Schema {
	return c.schema
}

// Format returns the format the container was loaded from.
func (c *Container) Format() Format {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// DeclaredAmount returns the record count the loaded file declared. It can
// differ from Len.
func (c *Container) DeclaredAmount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.declared
}

// Skipped returns the number of text lines dropped by the last load.
func (c *Container) Skipped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipped
}

// LeadingComments returns the comment block at the top of a text file.
func (c *Container) LeadingComments() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leading
}

func (c *Container) SetLeadingComments(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leading = text
}

// TrailingComments returns comments found after the last record.
func (c *Container) TrailingComments() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trailing
}

func (c *Container) SetTrailingComments(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trailing = text
}

// Len returns the number of records.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// Put inserts r, or replaces the record with the same key in place.
func (c *Container) Put(r codec.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(r)
}

func (c *Container) put(r codec.Record) bool {
	k := r.Key()
	_, exists := c.records[k]
	if !exists {
		c.keys = append(c.keys, k)
	}
	c.records[k] = r
	return exists
}

// Get returns the record stored under k.
func (c *Container) Get(k codec.Key) (codec.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.records[k]
	return r, ok
}

// Delete removes the record stored under k and reports whether it existed.
func (c *Container) Delete(k codec.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[k]; !ok {
		return false
	}
	delete(c.records, k)
	for i, key := range c.keys {
		if key == k {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the record keys in insertion order.
func (c *Container) Keys() []codec.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]codec.Key(nil), c.keys...)
}

// Records returns the records in insertion order.
func (c *Container) Records() []codec.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]codec.Record, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.records[k]
	}
	return out
}

// MaterialTable returns the index Mesh frames use to refer to the
// materials of this container, or nil for other schemas.
func (c *Container) MaterialTable() codec.MaterialTable {
	if c.schema != SchemaMaterial {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.keys))
	for i, k := range c.keys {
		names[i] = k.Name
	}
	return codec.NewMaterialIndex(names)
}

func (c *Container) reset() {
	c.keys = nil
	c.records = make(map[codec.Key]codec.Record)
	c.declared = 0
	c.leading = ""
	c.trailing = ""
	c.skipped = 0
}
