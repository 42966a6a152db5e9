package spatial

import (
	"agh/navigator/pkg/graph"

	"github.com/dhconnelly/rtreego"
)

var tol = 0.0001

type vertexRect struct {
	Location rtreego.Point
	Vertex   graph.Vertex
}

func (v *vertexRect) Bounds() rtreego.Rect {
	// bounds of v is a rectangle centered at its location with side 2 * tol
	return v.Location.ToRect(tol)
}

// VertexIndex rtree over all graph vertices, fallback for coordinate snapping
// when the h3 cell lookup comes back empty.
type VertexIndex struct {
	tree *rtreego.Rtree
}

func NewVertexIndex(g *graph.CampusGraph) *VertexIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for _, vertex := range g.Vertices() {
		tree.Insert(&vertexRect{
			Location: rtreego.Point{vertex.Coord.Lat, vertex.Coord.Lon},
			Vertex:   vertex,
		})
	}
	return &VertexIndex{tree: tree}
}

func (idx *VertexIndex) NearestVertex(lat, lon float64) (graph.Vertex, bool) {
	results := idx.tree.NearestNeighbors(1, rtreego.Point{lat, lon})
	if len(results) == 0 || results[0] == nil {
		return graph.Vertex{}, false
	}
	return results[0].(*vertexRect).Vertex, true
}
