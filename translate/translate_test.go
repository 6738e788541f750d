package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLocale()
	assert.Equal("pc 0x10 module 3", From("pc 0x%02x module %d", 0x10, 3))

	SetLocale("en-GB", "en-US")
	assert.Equal("unknown opcode", From("unknown opcode"))
}
