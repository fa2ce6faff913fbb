// Package graph holds the cycle check used while laying out corridors.
package graph

// Connector tracks which rooms are joined by corridors over a fixed set
// of vertices 0..n-1. Corridor layout only ever adds edges that keep the
// graph a forest, so reachable means reachable by exactly one path.
type Connector struct {
	n   int
	adj map[int][]int
}

func NewConnector(vertices int) *Connector {
	return &Connector{n: vertices, adj: make(map[int][]int)}
}

// Connect records an undirected edge. Callers gate additions on
// MayConnect; Connect itself does not validate.
func (c *Connector) Connect(from, to int) {
	c.adj[from] = append(c.adj[from], to)
	c.adj[to] = append(c.adj[to], from)
}

// Disconnect removes one edge previously added with Connect. Removing an
// edge that does not exist is a caller bug and panics.
func (c *Connector) Disconnect(from, to int) {
	c.adj[from] = removeFirst(c.adj[from], to)
	c.adj[to] = removeFirst(c.adj[to], from)
}

func removeFirst(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	panic("graph: disconnecting an edge that does not exist")
}

// MayConnect reports whether joining from and to keeps the graph
// acyclic. An edge that already exists may not be doubled. The check adds
// the edge speculatively, scans every component, and removes it again.
func (c *Connector) MayConnect(from, to int) bool {
	for _, x := range c.adj[from] {
		if x == to {
			return false
		}
	}
	c.Connect(from, to)
	ok := true
	visited := make([]bool, c.n)
	for i := 0; i < c.n; i++ {
		if !visited[i] && c.hasCycle(i, visited, -1) {
			ok = false
			break
		}
	}
	c.Disconnect(from, to)
	return ok
}

func (c *Connector) hasCycle(vertex int, visited []bool, parent int) bool {
	visited[vertex] = true
	for _, i := range c.adj[vertex] {
		if !visited[i] {
			if c.hasCycle(i, visited, vertex) {
				return true
			}
		} else if i != parent {
			return true
		}
	}
	return false
}
