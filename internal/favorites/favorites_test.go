package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Toggle(t *testing.T) {
	s := New()

	assert.True(t, s.Toggle(3))
	assert.True(t, s.Toggle(1))
	assert.True(t, s.IsFavorite(3))
	assert.Equal(t, []int{3, 1}, s.IDs())

	assert.False(t, s.Toggle(3))
	assert.False(t, s.IsFavorite(3))
	assert.Equal(t, []int{1}, s.IDs())
}

func TestSet_ToggleTwiceRestores(t *testing.T) {
	s := New()
	s.Toggle(5)
	s.Toggle(7)
	before := s.IDs()

	s.Toggle(9)
	s.Toggle(9)
	assert.Equal(t, before, s.IDs())

	s.Toggle(5)
	s.Toggle(5)
	assert.ElementsMatch(t, before, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestSet_ZeroValue(t *testing.T) {
	var s Set
	assert.False(t, s.IsFavorite(1))
	assert.True(t, s.Toggle(1))
	assert.True(t, s.IsFavorite(1))
}

func TestSet_Restore(t *testing.T) {
	s := New()
	s.Restore([]int{4, 2, 4})
	assert.Equal(t, []int{4, 2}, s.IDs())
}
