package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// ROM_SIZE is the size of a program image.
const ROM_SIZE = 0x100

// Rom holds a program image.
type Rom struct {
	Data []byte
}

var _ Channel = (*Rom)(nil)

// Defines returns an iter of defines for the channel.
func (rc *Rom) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"ROM_SIZE": fmt.Sprintf("0x%x", ROM_SIZE),
	})
}

// Rewind empties the image.
func (rc *Rom) Rewind() {
	rc.Data = nil
}

// ReadFrom replaces the image with the contents of r.
// Images shorter than ROM_SIZE are padded with zero (NOP) bytes.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	data, err := io.ReadAll(io.LimitReader(r, ROM_SIZE+1))
	n = int64(len(data))
	if err != nil {
		return
	}

	if len(data) > ROM_SIZE {
		err = ErrImageSize
		return
	}

	rc.Data = data
	return
}

// WriteTo writes the full-size image to w.
func (rc *Rom) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(rc.Image())
	n = int64(written)
	return
}

// Image returns the image padded to ROM_SIZE.
func (rc *Rom) Image() []byte {
	image := make([]byte, ROM_SIZE)
	copy(image, rc.Data)
	return image
}
