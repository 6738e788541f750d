package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// Tape is the sequential output channel of the machine. Each byte sent
// by OUT is written through to Output.
type Tape struct {
	Output   io.Writer
	Capacity int // Maximum bytes written; unlimited if zero.

	writeIndex int
}

var _ Channel = (*Tape)(nil)
var _ io.ByteWriter = (*Tape)(nil)

// Defines returns an iter of defines for the channel.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"TAPE_CAPACITY": fmt.Sprintf("%d", tc.Capacity),
	})
}

// Rewind is not possible on a tape; only the write count is reset.
func (tc *Tape) Rewind() {
	tc.writeIndex = 0
}

// Written returns the number of bytes written since the last rewind.
func (tc *Tape) Written() int {
	return tc.writeIndex
}

// WriteByte writes a byte to the output stream.
func (tc *Tape) WriteByte(value byte) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	if tc.Capacity > 0 && tc.writeIndex >= tc.Capacity {
		err = ErrChannelFull
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		return
	}

	tc.writeIndex++
	return
}
