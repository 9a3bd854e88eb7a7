package cpu

// Stack is a bounded last-in first-out stack.
// A zero Limit is unbounded.
type Stack[T any] struct {
	Data  []T
	Limit int
}

func (s *Stack[T]) Push(value T) {
	s.Data = append(s.Data, value)
}

func (s *Stack[T]) Pop() (value T, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack[T]) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack[T]) Full() bool {
	return s.Limit > 0 && len(s.Data) >= s.Limit
}

// Free returns the number of values that can be pushed, or -1 if unbounded.
func (s *Stack[T]) Free() int {
	if s.Limit == 0 {
		return -1
	}
	return s.Limit - len(s.Data)
}

func (s *Stack[T]) Depth() int {
	return len(s.Data)
}

func (s *Stack[T]) Peek() (value T, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack[T]) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
