package world

import (
	"fmt"
	"math"
	"sort"
)

// Index is the spatial neighbour index over agent positions. Entries are
// addressed by the order they were added, which is the agent's market index.
// Several entries may share a hex.
type Index struct {
	positions []HexCoord
	buckets   map[HexCoord][]int
	far       int // largest distance of any entry from the origin
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{buckets: make(map[HexCoord][]int)}
}

// Add places a new entry at pos and returns its index.
func (x *Index) Add(pos HexCoord) int {
	i := len(x.positions)
	x.positions = append(x.positions, pos)
	x.buckets[pos] = append(x.buckets[pos], i)
	x.far = max(x.far, Distance(HexCoord{}, pos))
	return i
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	return len(x.positions)
}

// Position returns the coordinate of entry i.
func (x *Index) Position(i int) HexCoord {
	return x.positions[i]
}

// Within returns the indices of every entry whose hex distance from pos is at
// most radius, sorted by ascending distance and then by index. An entry
// located at pos itself is included.
func (x *Index) Within(pos HexCoord, radius float64) []int {
	if radius < 0 || math.IsNaN(radius) {
		return nil
	}
	// Nothing indexed lies further than limit, so huge radii stay cheap.
	// Clamp before converting: +Inf does not fit an int.
	limit := x.far + Distance(HexCoord{}, pos)
	steps := limit
	if radius < float64(limit) {
		steps = int(math.Floor(radius))
	}

	var found []int
	for _, c := range pos.Range(steps) {
		found = append(found, x.buckets[c]...)
	}

	sort.Slice(found, func(a, b int) bool {
		da := Distance(pos, x.positions[found[a]])
		db := Distance(pos, x.positions[found[b]])
		if da != db {
			return da < db
		}
		return found[a] < found[b]
	})
	return found
}

// String returns a summary of the index.
func (x *Index) String() string {
	return fmt.Sprintf("Index(entries=%d, hexes=%d)", len(x.positions), len(x.buckets))
}
