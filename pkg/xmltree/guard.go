package xmltree

import "github.com/dmitrymomot/lingua/pkg/model"

// DefaultMaxDepth is the default ceiling of a RecursionGuard.
const DefaultMaxDepth = 250

// RecursionGuard counts nested traversals per relation kind for one call
// chain. It is not safe for concurrent use; every top-level serialization
// owns its own guard.
type RecursionGuard struct {
	depth map[model.RelationKind]int
	max   int
}

// NewRecursionGuard creates a guard that trips when a kind nests deeper
// than limit. A non-positive limit selects DefaultMaxDepth.
func NewRecursionGuard(limit int) *RecursionGuard {
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	return &RecursionGuard{depth: make(map[model.RelationKind]int), max: limit}
}

// Enter increments the counter of kind and reports false when the ceiling
// is exceeded. The counter stays incremented either way.
func (g *RecursionGuard) Enter(kind model.RelationKind) bool {
	g.depth[kind]++
	return g.depth[kind] <= g.max
}

// Leave decrements the counter of kind after a successful traversal.
func (g *RecursionGuard) Leave(kind model.RelationKind) {
	if g.depth[kind] > 0 {
		g.depth[kind]--
	}
}

// Reset clears the counter of kind. Called when an error unwinds through a
// traversal.
func (g *RecursionGuard) Reset(kind model.RelationKind) {
	delete(g.depth, kind)
}

// Depth returns the current counter of kind.
func (g *RecursionGuard) Depth(kind model.RelationKind) int {
	return g.depth[kind]
}

// Max returns the ceiling.
func (g *RecursionGuard) Max() int { return g.max }
