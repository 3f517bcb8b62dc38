package inference

// dependency is the state of one cell of the dependency matrix.
type dependency uint8

const (
	depUnknown dependency = iota
	depNotDependent
	depDirect
	depIndirect
)

// dependencyGraph records, for every pair of variables (i, j), whether
// fixing i has to wait for j. The closure is computed lazily: fixing a
// variable only clears its row and column and marks the graph dirty.
type dependencyGraph struct {
	n     int
	cells []dependency
	dirty bool
}

func newDependencyGraph(n int, direct func(i, j int) bool) *dependencyGraph {
	g := &dependencyGraph{n: n, cells: make([]dependency, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if direct(i, j) {
				g.set(i, j, depDirect)
			}
		}
	}
	g.deduceAll()
	return g
}

func (g *dependencyGraph) at(i, j int) dependency { return g.cells[i*g.n+j] }

func (g *dependencyGraph) set(i, j int, d dependency) { g.cells[i*g.n+j] = d }

func (g *dependencyGraph) deduceAll() {
	for g.deduceOnce() {
	}
	for k, d := range g.cells {
		if d == depUnknown {
			g.cells[k] = depNotDependent
		}
	}
}

// deduceOnce adds one round of transitive edges and reports whether
// anything changed.
func (g *dependencyGraph) deduceOnce() bool {
	changed := false
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if g.at(i, j) != depUnknown {
				continue
			}
			for k := 0; k < g.n; k++ {
				if g.isDependent(i, k) && g.isDependent(k, j) {
					g.set(i, j, depIndirect)
					changed = true
					break
				}
			}
		}
	}
	return changed
}

func (g *dependencyGraph) isDependent(i, j int) bool {
	d := g.at(i, j)
	return d == depDirect || d == depIndirect
}

func (g *dependencyGraph) refresh() {
	if !g.dirty {
		return
	}
	for k, d := range g.cells {
		if d == depIndirect {
			g.cells[k] = depUnknown
		}
	}
	g.deduceAll()
	g.dirty = false
}

// dependsOn reports whether i depends on j, directly or transitively.
func (g *dependencyGraph) dependsOn(i, j int) bool {
	g.refresh()
	return g.isDependent(i, j)
}

// dependsOnAny reports whether i waits on some variable.
func (g *dependencyGraph) dependsOnAny(i int) bool {
	for j := 0; j < g.n; j++ {
		if g.dependsOn(i, j) {
			return true
		}
	}
	return false
}

// anyDependsOn reports whether some variable waits on i.
func (g *dependencyGraph) anyDependsOn(i int) bool {
	for j := 0; j < g.n; j++ {
		if g.dependsOn(j, i) {
			return true
		}
	}
	return false
}

// fixed drops every edge into or out of i.
func (g *dependencyGraph) fixed(i int) {
	for j := 0; j < g.n; j++ {
		g.set(i, j, depNotDependent)
		g.set(j, i, depNotDependent)
	}
	g.dirty = true
}
