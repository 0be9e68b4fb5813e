package di

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/dbckit/pkg/config"
	"github.com/ssargent/dbckit/pkg/dbc"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return cfg
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, config.Logging{Level: "warn", Format: "json"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(&buf, config.Logging{Level: "noisy"})
	assert.Error(t, err)
}

func TestContainer_Storage(t *testing.T) {
	c := NewContainer(testConfig(t), nil)
	defer c.Close()

	s1, err := c.Storage()
	require.NoError(t, err)
	s2, err := c.Storage()
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	_, err = s1.IndexName("a/b.msh")
	require.NoError(t, err)
}

func TestContainer_ContainerOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaterialsFile = filepath.Join(cfg.DataDir, "material.ini")
	require.NoError(t, os.WriteFile(cfg.MaterialsFile, []byte("Material=2\r\n"+
		"default FFFFFFFF FFFFFFFF FFFFFFFF FF000000 0\r\n"+
		"water FFFFFFFF FFFFFFFF FF60DEE6 FF47607E 5\r\n"), 0o600))

	c := NewContainer(cfg, nil)
	opts, err := c.ContainerOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	// binary mesh part 0 referring to material index 1
	mesh := []byte("MESH\x01\x00\x00\x00" +
		"\x07\x00\x00\x00\x01\x00\x00\x00" +
		"\x01\x00\x00\x00\x02\x00\x00\x00\x00\x00\x00\x00\x00\x05\x06\x01")
	m, _, err := dbc.Open(bytes.NewReader(mesh), opts...)
	require.NoError(t, err)
	assert.Contains(t, func() string {
		var out bytes.Buffer
		require.NoError(t, m.SaveAs(&out, dbc.Text))
		return out.String()
	}(), "Material0=water")
}

func TestContainer_ContainerOptionsBadMaterials(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaterialsFile = filepath.Join(cfg.DataDir, "mesh.ini")
	require.NoError(t, os.WriteFile(cfg.MaterialsFile, []byte("[1]\r\nPart=0\r\n"), 0o600))

	_, err := NewContainer(cfg, nil).ContainerOptions()
	assert.ErrorContains(t, err, "holds mesh records")
}

func TestContainer_ServerAndMetrics(t *testing.T) {
	c := NewContainer(testConfig(t), nil)
	defer c.Close()

	srv, err := c.Server()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())

	opts, err := c.ContainerOptions()
	require.NoError(t, err)
	_, _, err = dbc.Open(bytes.NewReader([]byte("Material=0\r\n")), opts...)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dbckit.prom")
	require.NoError(t, c.WriteMetrics(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dbckit_loads_total{format="text",schema="material",status="success"} 1`)
}
