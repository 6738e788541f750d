package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/modvm/vm"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	assert.Equal(vm.STACK_LIMIT, c.Machine.MaxDepth)
	assert.Equal(0, c.Machine.MaxTicks)
	assert.False(c.Trace.Enabled)
	assert.Equal("-", c.Output.Path)
	assert.NoError(c.Validate())
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse(`
[machine]
max_depth = 4
max_ticks = 100

[trace]
enabled = true

[output]
path = "out.bin"
`)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(4, c.Machine.MaxDepth)
	assert.Equal(100, c.Machine.MaxTicks)
	assert.True(c.Trace.Enabled)
	assert.False(c.Trace.Verbose)
	assert.Equal(1, c.Trace.Level)
	assert.Equal("out.bin", c.Output.Path)
}

func TestParse_Partial(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse("[trace]\nverbose = true\n")
	assert.NoError(err)
	assert.Equal(vm.STACK_LIMIT, c.Machine.MaxDepth)
	assert.True(c.Trace.Verbose)
}

func TestParse_Invalid(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("[machine]\nmax_depth = 0\n")
	assert.Error(err)

	_, err = Parse("[machine]\nmax_ticks = -1\n")
	assert.Error(err)

	_, err = Parse("[machine\n")
	assert.Error(err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, FILENAME)
	err := os.WriteFile(path, []byte("[machine]\nmax_depth = 2\n"), 0o644)
	assert.NoError(err)

	c, err := Load(path)
	assert.NoError(err)
	assert.Equal(2, c.Machine.MaxDepth)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(err)
}

func TestApply(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	c.Machine.MaxDepth = 3
	c.Machine.MaxTicks = 50
	c.Trace.Verbose = true

	m := vm.NewMachine()
	c.Apply(m)
	assert.Equal(3, m.MaxDepth)
	assert.Equal(50, m.MaxTicks)
	assert.True(m.Verbose)
}
