package geom

// VertexSet collects points deduplicated by their spatial hash,
// preserving first-insertion order. A point whose UniqueID is already
// present is dropped; the first write wins.
type VertexSet struct {
	seen  map[int64]struct{}
	order []Point
}

func NewVertexSet() *VertexSet {
	return &VertexSet{seen: make(map[int64]struct{})}
}

// Add records p unless its hash was seen before. It reports whether the
// point was inserted.
func (s *VertexSet) Add(p Point) bool {
	id := p.UniqueID()
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, p)
	return true
}

func (s *VertexSet) Len() int {
	return len(s.order)
}

// Points returns the collected points in insertion order. The slice is
// shared; callers must not modify it.
func (s *VertexSet) Points() []Point {
	return s.order
}
