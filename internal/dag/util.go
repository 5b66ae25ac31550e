// Copyright 2024 rg0now. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dag

// New creates an empty graph.
func New() *Graph {
	return &Graph{known: map[string]bool{}, succ: map[string][]string{}, pred: map[string][]string{}}
}

// Roots returns a roots of the DAG, i.e., the nodes without an incoming edge.
func (g *Graph) Roots() []string {
	roots := make([]string, 0, len(g.Nodes))

	for _, n := range g.Nodes {
		if len(g.pred[n]) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Reachable reports whether there is a non-empty path from one node to the other.
func (g *Graph) Reachable(from, to string) bool {
	visited := map[string]bool{}
	stack := g.Edges(from)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, g.Edges(n)...)
	}
	return false
}

// Predecessors returns the nodes with an edge into the given node, in edge insertion order.
func (g *Graph) Predecessors(to string) []string {
	return append([]string{}, g.pred[to]...)
}

// Ancestors returns every node from which the given node is reachable, in breadth-first order.
// In a dependency graph these are the transitive dependents of the node.
func (g *Graph) Ancestors(to string) []string {
	ret := []string{}
	visited := map[string]bool{to: true}
	queue := []string{to}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range g.Predecessors(n) {
			if visited[p] {
				continue
			}
			visited[p] = true
			ret = append(ret, p)
			queue = append(queue, p)
		}
	}
	return ret
}
