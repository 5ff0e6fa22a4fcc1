package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepzgk/tact/library"
)

type cli struct {
	t      *testing.T
	config string
	lib    string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	config := filepath.Join(dir, "tact.yaml")
	body := "library: " + lib + "\nformat: json\nsample_rate: 4096\nlog_level: error\n"
	require.NoError(t, os.WriteFile(config, []byte(body), 0o644))
	return &cli{t: t, config: config, lib: lib}
}

func (c *cli) run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	out, err := c.run(args...)
	require.NoError(c.t, err, args)
	return out
}

func TestExprInfoList(t *testing.T) {
	c := newCLI(t)
	c.must("expr", "hum", "sin(2*pi*100*t)", "--duration", "1")
	c.must("expr", "ramp", "t")

	assert.Equal(t, "hum\nramp\n", c.must("list"))

	info := c.must("info", "hum")
	assert.Contains(t, info, "Product[1s]")
	assert.Contains(t, info, `"sin(2*pi*100*t)"`)
	assert.Contains(t, info, "Envelope[1s] amplitude=1")
	assert.Contains(t, info, "length 1s")

	assert.Contains(t, c.must("info", "ramp"), "length infinite")

	_, err := c.run("expr", "bad", "sin(")
	assert.Error(t, err)
	_, err = c.run("info", "missing")
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestRender(t *testing.T) {
	c := newCLI(t)
	c.must("expr", "ramp", "2*t", "--duration", "0.001")
	out := c.must("render", "ramp", "--rate", "1000")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"t,value", "0,0", "0.001,0.002"}, lines)

	path := filepath.Join(t.TempDir(), "out.csv")
	c.must("render", "ramp", "--rate", "1000", "-o", path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(b))

	_, err = c.run("render", "ramp", "--rate", "1000", "--duration", "-1")
	assert.NoError(t, err)
}

func TestSpectrum(t *testing.T) {
	c := newCLI(t)
	c.must("expr", "hum", "sin(2*pi*100*t)")
	out := c.must("spectrum", "hum", "--peaks", "1")
	assert.Contains(t, out, "100.0 Hz")

	_, err := c.run("spectrum", "hum", "--size", "1000")
	assert.Error(t, err)
}

func TestConvertImportRemove(t *testing.T) {
	c := newCLI(t)
	c.must("expr", "hum", "sin(t)")
	_, err := os.Stat(filepath.Join(c.lib, "hum.json"))
	require.NoError(t, err)

	c.must("convert", "hum", "--to", "yaml")
	_, err = os.Stat(filepath.Join(c.lib, "hum.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(c.lib, "hum.json"))
	assert.True(t, os.IsNotExist(err))

	export := filepath.Join(t.TempDir(), "exported.tact")
	c.must("convert", "hum", "--to", "binary", "-o", export)
	c.must("import", export, "--name", "copy")
	c.must("import", export, "--signal")
	assert.Equal(t, "copy\nhum\n", c.must("list"))
	assert.Equal(t, "hum\n", c.must("list", "--signals"))

	c.must("rm", "hum")
	assert.Equal(t, "copy\n", c.must("list"))
	assert.Equal(t, "", c.must("list", "--signals"))

	_, err = c.run("convert", "copy", "--to", "xml")
	assert.Error(t, err)
	_, err = c.run("import", filepath.Join(t.TempDir(), "x.txt"))
	assert.Error(t, err)
}

func TestBadConfig(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte("channels: 0\n"), 0o644))
	_, err := c.run("list")
	assert.Error(t, err)
}
