package vm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var fuzzErrors = []error{
	ErrOutOfBounds,
	ErrInvalidRegister,
	ErrUnknownModule,
	ErrMalformedModule,
	ErrCallStackExhausted,
	ErrUnknownOpcode,
	ErrNoModule,
	ErrBudgetExhausted,
}

func FuzzMachine(f *testing.F) {
	f.Add(code(MOVE, AX, 3, START, 0x00, HALT, MODULE, 0x00, MOVE, AX, 2, RET), uint8(4))
	f.Add(code(START, 0x00, MODULE, 0x00, START, 0x00, RET), uint8(16))
	f.Add(code(RUN, 0x01, MODULE, 0x01, CID, AX, OUT, AX, LDC, BX, AX, RET), uint8(2))
	f.Add(code(MODULE, 0x05, RET, MODULE, 0x05, RET), uint8(1))
	f.Add([]byte{}, uint8(0))

	f.Fuzz(func(t *testing.T, image []byte, depth uint8) {
		assert := assert.New(t)

		if len(image) > MEMORY_SIZE {
			image = image[:MEMORY_SIZE]
		}

		m := NewMachine()
		m.MaxDepth = int(depth % 32)
		m.MaxTicks = 4 * MEMORY_SIZE

		err := m.Reset(image)
		if err != nil {
			var load *ErrLoad
			assert.True(errors.As(err, &load), err)
			assert.True(errors.Is(err, ErrMalformedModule) || errors.Is(err, ErrDuplicateModule), err)
			return
		}

		for mod := range m.Modules.Occupied() {
			assert.True(mod.Start == mod.Declared+2)
			assert.True(mod.End >= mod.Start && mod.End < MEMORY_SIZE)
			assert.Equal(byte(RET), m.Image.Data[mod.End])
		}

		err = m.Run(context.Background())

		state := fmt.Sprintf("image: %x\n%v", image, m.String())

		limit := m.MaxDepth
		if limit == 0 {
			limit = STACK_LIMIT
		}
		assert.LessOrEqual(m.Stack.Depth(), limit, state)
		assert.LessOrEqual(m.Ticks, m.MaxTicks, state)

		if err == nil {
			assert.True(m.Done, state)
			return
		}

		var fault *ErrFault
		assert.True(errors.As(err, &fault), state)

		known := false
		for _, kind := range fuzzErrors {
			if errors.Is(err, kind) {
				known = true
				break
			}
		}
		assert.True(known, "%v\n%v", err, state)
	})
}
