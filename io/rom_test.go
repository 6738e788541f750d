package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	assert.Equal(make([]byte, ROM_SIZE), rom.Image())

	n, err := rom.ReadFrom(bytes.NewReader([]byte{1, 2, 3}))
	assert.NoError(err)
	assert.Equal(int64(3), n)
	assert.Equal([]byte{1, 2, 3}, rom.Data)

	image := rom.Image()
	assert.Equal(ROM_SIZE, len(image))
	assert.Equal([]byte{1, 2, 3, 0}, image[:4])

	output := &bytes.Buffer{}
	n, err = rom.WriteTo(output)
	assert.NoError(err)
	assert.Equal(int64(ROM_SIZE), n)
	assert.Equal(image, output.Bytes())

	rom.Rewind()
	assert.Nil(rom.Data)
}

func TestRom_TooLarge(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{7}}
	_, err := rom.ReadFrom(bytes.NewReader(make([]byte, ROM_SIZE+10)))
	assert.ErrorIs(err, ErrImageSize)
	assert.Equal([]byte{7}, rom.Data)

	_, err = rom.ReadFrom(bytes.NewReader(make([]byte, ROM_SIZE)))
	assert.NoError(err)
	assert.Equal(ROM_SIZE, len(rom.Data))
}
