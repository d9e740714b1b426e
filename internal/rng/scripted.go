package rng

// Scripted replays fixed values. When a queue runs dry it falls back to 0,
// which keeps Choice on the first element and Uniform at the bottom of the
// range.
type Scripted struct {
	Floats []float64
	Ints   []int
}

func (s *Scripted) Uniform() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 || v >= n {
		return ((v % n) + n) % n
	}
	return v
}
