// Package world provides the hex grid the agora is laid out on and the
// spatial index agents use to sense their neighbourhood.
// Uses axial coordinates (q, r) for the hex grid.
package world

import "fmt"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// String formats the coordinate as "(q,r)".
func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// Range returns every coordinate within n steps of h, h included.
// A range of n contains 3n(n+1)+1 hexes.
func (h HexCoord) Range(n int) []HexCoord {
	if n < 0 {
		return nil
	}
	out := make([]HexCoord, 0, 3*n*(n+1)+1)
	for dq := -n; dq <= n; dq++ {
		lo := max(-n, -dq-n)
		hi := min(n, -dq+n)
		for dr := lo; dr <= hi; dr++ {
			out = append(out, HexCoord{Q: h.Q + dq, R: h.R + dr})
		}
	}
	return out
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

// Disc returns all coordinates of a hex grid of the given radius centred on the origin.
func Disc(radius int) []HexCoord {
	return HexCoord{}.Range(radius)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
