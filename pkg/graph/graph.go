package graph

import (
	"agh/navigator/pkg/datastructure"
)

// Edge is a directed weighted connection owned by the adjacency list of its
// start vertex. Endpoints are indexes into the graph's vertex arena.
type Edge struct {
	Weight      float64
	ToVertexIDx int32
}

type Vertex struct {
	Name     string
	Coord    datastructure.Coordinate
	OutEdges []Edge
	IDx      int32
}

// CampusGraph static walk network topology. Built once per session by
// BuildGraph, never mutated afterwards. Per-query search state lives in the
// engine's run context, so one CampusGraph can serve concurrent queries.
type CampusGraph struct {
	vertices []Vertex
	nameIdx  map[string]int32
}

func (g *CampusGraph) NumVertices() int {
	return len(g.vertices)
}

func (g *CampusGraph) GetVertex(idx int32) Vertex {
	return g.vertices[idx]
}

// IndexOfVertex resolves a point name to its arena index.
func (g *CampusGraph) IndexOfVertex(name string) (int32, bool) {
	idx, ok := g.nameIdx[name]
	return idx, ok
}

func (g *CampusGraph) GetOutEdges(idx int32) []Edge {
	return g.vertices[idx].OutEdges
}

func (g *CampusGraph) Vertices() []Vertex {
	return g.vertices
}
