package model

// Stack is the LIFO work list of the iterative tree traversals. Trees can
// be deep enough that recursion is not an option.
type Stack[T any] struct {
	items []T
}

func NewStack[T any]() *Stack[T] { return &Stack[T]{items: make([]T, 0, 32)} }

// Push appends items in order, so the last one is popped first.
func (s *Stack[T]) Push(items ...T) { s.items = append(s.items, items...) }

func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	top := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return top, true
}

func (s *Stack[T]) Len() int { return len(s.items) }
