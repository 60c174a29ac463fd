package utils

type MapSet[K comparable] struct {
	m map[K]struct{}
}

func NewMapSet[K comparable]() MapSet[K] {
	return MapSet[K]{
		m: make(map[K]struct{}),
	}
}

func (s MapSet[K]) Add(val K) {
	s.m[val] = struct{}{}
}

func (s MapSet[K]) Contains(val K) bool {
	_, ok := s.m[val]
	return ok
}

// TryAdd inserts val and reports whether it was absent.
func (s MapSet[K]) TryAdd(val K) bool {
	if s.Contains(val) {
		return false
	}
	s.m[val] = struct{}{}
	return true
}

func (s MapSet[K]) Len() int {
	return len(s.m)
}

func (s MapSet[K]) Keys() []K {
	keys := make([]K, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	return keys
}
