// Package visualize renders the dependency graph of a class of derived attributes as a
// diagram.
package visualize

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"

	"github.com/l7mp/computed-sortby/pkg/computed"
	"github.com/l7mp/computed-sortby/pkg/observe"
	"github.com/l7mp/computed-sortby/pkg/util"
)

// ContentLabel is the label of the node standing for the content of a proxy object.
const ContentLabel = "content"

// Generator renders a graph.
type Generator interface {
	Generate(g *Graph) string
}

// Graph represents the dependency graph of a class.
type Graph struct {
	ClassName  string
	Attributes []AttributeNode
	Sources    []string
	Edges      []Edge
}

// AttributeNode represents a derived attribute. Terminal attributes have no dependents.
type AttributeNode struct {
	Name        string
	Description string
	Terminal    bool
}

// Edge connects an attribute to a derived attribute computed from it. Each lists the item
// properties the derived attribute depends on.
type Edge struct {
	From string
	To   string
	Each []string
}

// Label renders the item properties of the edge.
func (e Edge) Label() string {
	parts := make([]string, len(e.Each))
	for i, each := range e.Each {
		parts[i] = "@each." + each
	}
	return strings.Join(parts, ", ")
}

// BuildGraph constructs a dependency graph from a class.
func BuildGraph(c *observe.Class) *Graph {
	g := &Graph{ClassName: c.Name()}
	terminal := map[string]bool{}
	for _, name := range c.Terminals() {
		terminal[name] = true
	}

	for _, name := range c.Attributes() {
		node := AttributeNode{Name: name, Description: name, Terminal: terminal[name]}
		if p, ok := c.Property(name); ok {
			if s, ok := p.(fmt.Stringer); ok {
				node.Description = s.String()
			}
		}
		g.Attributes = append(g.Attributes, node)

		index := map[string]int{}
		for _, d := range c.Dependencies(name) {
			i, ok := index[d.Key]
			if !ok {
				i = len(g.Edges)
				index[d.Key] = i
				g.Edges = append(g.Edges, Edge{From: d.Key, To: name})
			}
			if d.Each != "" {
				g.Edges[i].Each = append(g.Edges[i].Each, d.Each)
			}

			if !c.IsDerived(d.Key) {
				g.Sources = append(g.Sources, d.Key)
			}
		}
	}
	g.Sources = util.Unique(g.Sources)

	return g
}

// IsSource reports whether the attribute is a plain (non-derived) attribute.
func (g *Graph) IsSource(name string) bool {
	for _, s := range g.Sources {
		if s == name {
			return true
		}
	}
	return false
}

func sourceLabel(name string) string {
	if name == computed.Self {
		return ContentLabel
	}
	return name
}

// BuildDotGraph creates a dot.Graph from the dependency graph. The result can be rendered in
// different formats (DOT, Mermaid, etc.).
func BuildDotGraph(g *Graph) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR")
	graph.Attr("label", g.ClassName)
	graph.Attr("labelloc", "t")
	graph.Attr("fontsize", "16")

	nodes := make(map[string]dot.Node)

	for _, s := range g.Sources {
		nodes[s] = graph.Node(s).
			Attr("label", sourceLabel(s)).
			Attr("shape", "ellipse").
			Attr("style", "filled").
			Attr("fillcolor", "lightgreen")
	}

	for _, a := range g.Attributes {
		label := a.Name
		if a.Description != a.Name {
			label += ": " + a.Description
		}
		fill := "lightblue"
		if a.Terminal {
			fill = "lightcyan"
		}
		nodes[a.Name] = graph.Node(a.Name).
			Attr("label", label).
			Attr("shape", "box").
			Attr("style", "filled,rounded").
			Attr("fillcolor", fill).
			Attr("color", "darkblue").
			Attr("fontname", "helvetica")
	}

	for _, e := range g.Edges {
		from, fromExists := nodes[e.From]
		to, toExists := nodes[e.To]
		if !fromExists || !toExists {
			continue
		}
		edge := graph.Edge(from, to).
			Attr("fontname", "helvetica").
			Attr("fontsize", "10")
		if label := e.Label(); label != "" {
			edge.Attr("label", label)
		}
		if !g.IsSource(e.From) {
			edge.Attr("style", "dashed").Attr("color", "blue")
		}
	}

	return graph
}
