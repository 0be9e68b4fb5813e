// Package di provides dependency injection container
package di

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssargent/dbckit/pkg/api"
	"github.com/ssargent/dbckit/pkg/config"
	"github.com/ssargent/dbckit/pkg/dbc"
	"github.com/ssargent/dbckit/pkg/storage"
)

// Container holds all the dependencies for the application. Storage, the
// material table and the metrics are built on first use.
type Container struct {
	config *config.Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *dbc.Metrics

	storageOnce sync.Once
	storage     *storage.DefaultStorage
	storageErr  error

	materialsOnce sync.Once
	materials     dbc.Option
	materialsErr  error
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	registry := prometheus.NewRegistry()
	return &Container{
		config:   cfg,
		logger:   logger,
		registry: registry,
		metrics:  dbc.NewMetrics(registry),
	}
}

// NewLogger builds the application logger from the logging configuration.
func NewLogger(w io.Writer, cfg config.Logging) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Registry returns the Prometheus registry every component registers with
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// Storage opens the pebble store under the configured data directory
func (c *Container) Storage() (*storage.DefaultStorage, error) {
	c.storageOnce.Do(func() {
		dir := filepath.Join(c.config.DataDir, "store")
		if err := os.MkdirAll(dir, 0750); err != nil {
			c.storageErr = fmt.Errorf("create data directory: %w", err)
			return
		}
		c.storage, c.storageErr = storage.NewDefaultStorage(dir)
		if c.storageErr == nil {
			c.logger.Debug("storage opened", "dir", dir)
		}
	})
	return c.storage, c.storageErr
}

// ContainerOptions returns the options every dbc container is opened with:
// the shared logger and metrics, plus the material table when a materials
// file is configured.
func (c *Container) ContainerOptions() ([]dbc.Option, error) {
	opts := []dbc.Option{dbc.WithLogger(c.logger), dbc.WithMetrics(c.metrics)}

	c.materialsOnce.Do(func() {
		if c.config.MaterialsFile == "" {
			return
		}
		m, _, err := dbc.OpenFile(c.config.MaterialsFile, dbc.WithLogger(c.logger))
		if err != nil {
			c.materialsErr = fmt.Errorf("load materials: %w", err)
			return
		}
		if m.Schema() != dbc.SchemaMaterial {
			c.materialsErr = fmt.Errorf("materials file %s holds %s records", c.config.MaterialsFile, m.Schema())
			return
		}
		c.materials = dbc.WithMaterials(m.MaterialTable())
		c.logger.Debug("material table loaded", "file", c.config.MaterialsFile, "materials", m.Len())
	})
	if c.materialsErr != nil {
		return nil, c.materialsErr
	}
	if c.materials != nil {
		opts = append(opts, c.materials)
	}
	return opts, nil
}

// Server creates the API server over the configured storage
func (c *Container) Server() (*api.Server, error) {
	store, err := c.Storage()
	if err != nil {
		return nil, err
	}
	cfg := api.ServerConfig{
		Port:   c.config.Port,
		Bind:   c.config.Bind,
		APIKey: c.config.Security.APIKey,
	}
	return api.NewServer(store, cfg, c.registry, c.metrics, c.logger), nil
}

// WriteMetrics writes the current metrics to path in the text exposition
// format.
func (c *Container) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Close releases the storage if it was opened
func (c *Container) Close() error {
	if c.storage != nil {
		return c.storage.Close()
	}
	return nil
}
