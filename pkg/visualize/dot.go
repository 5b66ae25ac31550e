package visualize

// DotGenerator generates Graphviz DOT diagrams.
type DotGenerator struct{}

var _ Generator = &DotGenerator{}

// Generate creates a Graphviz DOT diagram from the graph.
func (d *DotGenerator) Generate(g *Graph) string {
	return BuildDotGraph(g).String()
}

// NewGenerator returns the generator for a format name: "dot" or "mermaid".
func NewGenerator(format string) (Generator, error) {
	switch format {
	case "dot":
		return &DotGenerator{}, nil
	case "mermaid":
		return &MermaidGenerator{}, nil
	default:
		return nil, NewUnknownFormatError(format)
	}
}
