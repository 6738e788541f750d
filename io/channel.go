// Package io provides the byte channels attached to the modvm machine:
// the output Tape written by OUT, and the Rom that supplies the program
// image.
package io

import (
	"iter"
)

// Channel defines the interface shared by the modvm channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Defines returns the assembler equates of the channel.
	Defines() iter.Seq2[string, string]
}
