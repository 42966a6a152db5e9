package graph

import (
	"sort"

	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/geo"
)

// BuildGraph materializes the walk network from a validated points map. Every
// name gets exactly one vertex, created lazily on first reference. Edges are
// directed: an A->B adjacency entry does not create B->A, the data source has
// to list it both ways. Weights come from the distance provider, which
// guarantees non-negative symmetric distances.
func BuildGraph(points PointsData, distance geo.DistanceFunc) (*CampusGraph, error) {
	if err := points.Validate(); err != nil {
		return nil, err
	}

	g := &CampusGraph{
		vertices: make([]Vertex, 0, len(points)),
		nameIdx:  make(map[string]int32, len(points)),
	}

	// iterate in sorted order so vertex indexes are reproducible across builds
	names := make([]string, 0, len(points))
	for name := range points {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		record := points[name]
		fromIDx := g.addVertex(name, record.Coordinates)

		for _, adjacent := range record.Adjacents {
			toIDx := g.addVertex(adjacent, points[adjacent].Coordinates)

			weight := distance(g.vertices[fromIDx].Coord, g.vertices[toIDx].Coord)
			g.vertices[fromIDx].OutEdges = append(g.vertices[fromIDx].OutEdges, Edge{
				Weight:      weight,
				ToVertexIDx: toIDx,
			})
		}
	}

	return g, nil
}

func (g *CampusGraph) addVertex(name string, coords []float64) int32 {
	if idx, ok := g.nameIdx[name]; ok {
		return idx
	}
	idx := int32(len(g.vertices))
	g.vertices = append(g.vertices, Vertex{
		Name:  name,
		Coord: datastructure.NewCoordinate(coords[0], coords[1]),
		IDx:   idx,
	})
	g.nameIdx[name] = idx
	return idx
}
