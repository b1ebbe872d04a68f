package entity

// step is one heuristic in a ranked fallback chain
type step[T any] func() (T, bool)

// firstOf runs steps in priority order and returns the first value produced
func firstOf[T any](steps ...step[T]) (T, bool) {
	for _, s := range steps {
		if v, ok := s(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
