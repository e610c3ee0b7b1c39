package agents

import "github.com/talgya/agora/internal/world"

// Market is the container an agent lives in. It owns the population, the
// spatial index, the cost and needs schedules, the day counter and the
// contact log.
type Market interface {
	// Needs returns a fresh copy of the weekly per-group need schedule.
	Needs() []int
	// ProdCost returns the base production cost of group g today.
	ProdCost(g Group) float64
	// NumGroups returns the number of production groups.
	NumGroups() int
	// GroupOf returns the production group of the agent at index id.
	GroupOf(id AgentID) Group
	// Agent returns the agent at index id.
	Agent(id AgentID) *Agent
	// Neighbors returns the indices of agents within radius of pos, sorted by
	// ascending distance. An agent located at pos is included.
	Neighbors(pos world.HexCoord, radius float64) []AgentID
	// Day returns the current simulated day.
	Day() int
	// RecordContact appends a completed purchase to the contact log.
	RecordContact(buyer, seller AgentID)
}
