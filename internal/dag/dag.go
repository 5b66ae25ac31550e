// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dag implements a small directed graph of labeled nodes. An edge from a to b means
// that a depends on b: a derived attribute points at the attributes it is computed from.
package dag

import (
	"slices"
)

// Graph keeps nodes and edges in insertion order. It is not safe for concurrent use.
type Graph struct {
	Nodes []string
	known map[string]bool
	succ  map[string][]string
	pred  map[string][]string
}

// AddNode adds a node and reports whether it was new.
func (g *Graph) AddNode(label string) bool {
	if g.known[label] {
		return false
	}
	g.known[label] = true
	g.Nodes = append(g.Nodes, label)
	return true
}

func (g *Graph) HasNode(label string) bool { return g.known[label] }

// AddEdge adds an edge, creating the endpoints if needed.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if g.HasEdge(from, to) {
		return
	}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

func (g *Graph) HasEdge(from, to string) bool { return slices.Contains(g.succ[from], to) }

// Edges returns the successors of a node in edge insertion order.
func (g *Graph) Edges(from string) []string { return slices.Clone(g.succ[from]) }
