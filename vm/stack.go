package vm

const (
	STACK_LIMIT = 16 // Default maximum call depth
)

// Frame is the saved context of a caller.
type Frame struct {
	Pc        int       // Return address in the caller's memory.
	Module    *Module   // Caller module, nil for the root context.
	Registers Registers // Caller registers at the call.
	Shared    bool      // Set if the callee shares the caller's registers.
}

// CallStack is a bounded stack of caller frames.
type CallStack struct {
	Limit int // Maximum depth; STACK_LIMIT if zero.
	Data  []Frame
}

func (s *CallStack) limit() int {
	if s.Limit <= 0 {
		return STACK_LIMIT
	}
	return s.Limit
}

func (s *CallStack) Push(frame Frame) (err error) {
	if s.Full() {
		err = ErrCallStackExhausted
		return
	}

	s.Data = append(s.Data, frame)
	return
}

func (s *CallStack) Pop() (frame Frame, ok bool) {
	frame, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *CallStack) Empty() bool {
	return len(s.Data) == 0
}

func (s *CallStack) Full() bool {
	return len(s.Data) >= s.limit()
}

func (s *CallStack) Depth() int {
	return len(s.Data)
}

func (s *CallStack) Peek() (frame Frame, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *CallStack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
