package dbc

import (
	"sort"
	"sync"

	"github.com/ssargent/dbckit/pkg/codec"
)

// CodecConfig is passed to a Factory when a container is created.
type CodecConfig struct {
	// Materials resolves Mesh material indices; may be nil.
	Materials codec.MaterialTable
}

// Factory builds the codec for one schema.
type Factory func(cfg CodecConfig) codec.Codec

// Registry maps schemas to codec factories. Supporting a new schema means
// registering a factory for it.
type Registry struct {
	mu        sync.RWMutex
	factories map[Schema]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Schema]Factory)}
}

// DefaultRegistry returns a registry with the Material, Mesh and Effect
// codecs.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(SchemaMaterial, func(CodecConfig) codec.Codec {
		return codec.NewMaterialCodec()
	})
	r.Register(SchemaMesh, func(cfg CodecConfig) codec.Codec {
		return codec.NewMeshCodec(cfg.Materials)
	})
	r.Register(SchemaEffect, func(CodecConfig) codec.Codec {
		return codec.NewEffectCodec()
	})
	return r
}

// Register adds or replaces the factory for s.
func (r *Registry) Register(s Schema, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[s] = f
}

// Lookup returns the factory for s.
func (r *Registry) Lookup(s Schema) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[s]
	return f, ok
}

// Supports reports whether a codec is registered for s.
func (r *Registry) Supports(s Schema) bool {
	_, ok := r.Lookup(s)
	return ok
}

// Schemas lists the registered schemas in ascending order.
func (r *Registry) Schemas() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Schema, 0, len(r.factories))
	for s := range r.factories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
