package favorites

// Set holds product ids in insertion order. Not safe for concurrent use.
type Set struct {
	ids   []int
	index map[int]struct{}
}

func New() *Set {
	return &Set{index: make(map[int]struct{})}
}

// Toggle flips membership and reports whether id is now a favorite.
func (s *Set) Toggle(id int) bool {
	if s.index == nil {
		s.index = make(map[int]struct{})
	}
	if _, ok := s.index[id]; ok {
		delete(s.index, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *Set) IsFavorite(id int) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Set) Len() int {
	return len(s.ids)
}

func (s *Set) Restore(ids []int) {
	s.ids = nil
	s.index = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}
