package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHierarchyPriority(t *testing.T) {
	h := Hierarchy{2, 0, 5, 2, 1}
	assert.Equal(t, []Group{2, 0, 3, 4}, h.Priority())
	assert.Equal(t, 10, h.Total())
	assert.Equal(t, 0, h.Get(9))
	assert.Equal(t, 0, h.Get(-1))
	assert.Empty(t, Hierarchy{0, 0}.Priority())
}

func TestResetNeedsCopiesSchedule(t *testing.T) {
	m := newFakeMarket([]int{2, 3}, []float64{1, 1})
	a := m.add(cfgAt(0, 0, 0, 10, 1, 0))

	a.hierarchy[1] = 0
	m.needs[0] = 4 // schedule may change between weeks
	a.ResetNeeds()
	assert.Equal(t, Hierarchy{4, 3}, a.Hierarchy())

	h := a.Hierarchy()
	h[0] = 0
	assert.Equal(t, 4, a.Need(0), "hierarchy copy is detached")
}
