package agents

import "sort"

// Hierarchy is the consumer hierarchy: for each production group, the number
// of units the agent still wants this week.
type Hierarchy []int

// Get returns the remaining need for group g, or 0 for an unknown group.
func (h Hierarchy) Get(g Group) int {
	if g < 0 || int(g) >= len(h) {
		return 0
	}
	return h[g]
}

// Clone returns an independent copy.
func (h Hierarchy) Clone() Hierarchy {
	if h == nil {
		return nil
	}
	out := make(Hierarchy, len(h))
	copy(out, h)
	return out
}

// Total returns the sum of all remaining needs.
func (h Hierarchy) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Priority returns the groups with an outstanding need, most wanted first.
// Equal needs are ordered by ascending group.
func (h Hierarchy) Priority() []Group {
	order := make([]Group, 0, len(h))
	for g, n := range h {
		if n > 0 {
			order = append(order, Group(g))
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return h[order[i]] > h[order[j]]
	})
	return order
}

// ResetNeeds replaces the consumer hierarchy with the market's weekly schedule.
// Called by the driver at week boundaries.
func (a *Agent) ResetNeeds() {
	needs := Hierarchy(a.market.Needs()).Clone()
	a.mu.Lock()
	a.hierarchy = needs
	a.mu.Unlock()
}
