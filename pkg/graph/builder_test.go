package graph_test

import (
	"os"
	"path/filepath"
	"testing"

	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/graph"

	"github.com/stretchr/testify/assert"
)

func unitDistance(a, b datastructure.Coordinate) float64 {
	return 1
}

func TestBuildGraph(t *testing.T) {
	t.Run("every name gets exactly one vertex", func(t *testing.T) {
		points := graph.PointsData{
			"A": {Coordinates: []float64{1, 2}, Adjacents: []string{"B", "C"}},
			"B": {Coordinates: []float64{3, 4}, Adjacents: []string{"A"}},
			"C": {Coordinates: []float64{5, 6}, Adjacents: []string{}},
		}
		g, err := graph.BuildGraph(points, unitDistance)
		assert.Nil(t, err)
		assert.Equal(t, 3, g.NumVertices())

		idx, ok := g.IndexOfVertex("B")
		assert.True(t, ok)
		assert.Equal(t, "B", g.GetVertex(idx).Name)
		assert.Equal(t, datastructure.NewCoordinate(3, 4), g.GetVertex(idx).Coord)
	})

	t.Run("adjacency is directed", func(t *testing.T) {
		points := graph.PointsData{
			"A": {Coordinates: []float64{0, 0}, Adjacents: []string{"B"}},
			"B": {Coordinates: []float64{0, 1}, Adjacents: []string{}},
		}
		g, err := graph.BuildGraph(points, unitDistance)
		assert.Nil(t, err)

		aIDx, _ := g.IndexOfVertex("A")
		bIDx, _ := g.IndexOfVertex("B")
		assert.Len(t, g.GetOutEdges(aIDx), 1)
		assert.Equal(t, bIDx, g.GetOutEdges(aIDx)[0].ToVertexIDx)
		assert.Len(t, g.GetOutEdges(bIDx), 0)
	})

	t.Run("edge weights come from the distance provider", func(t *testing.T) {
		points := graph.PointsData{
			"A": {Coordinates: []float64{50.06, 19.91}, Adjacents: []string{"B"}},
			"B": {Coordinates: []float64{50.07, 19.92}, Adjacents: []string{}},
		}
		g, err := graph.BuildGraph(points, func(a, b datastructure.Coordinate) float64 {
			return 42.5
		})
		assert.Nil(t, err)
		aIDx, _ := g.IndexOfVertex("A")
		assert.Equal(t, 42.5, g.GetOutEdges(aIDx)[0].Weight)
	})

	t.Run("unresolved adjacency names the offending point", func(t *testing.T) {
		points := graph.PointsData{
			"A": {Coordinates: []float64{0, 0}, Adjacents: []string{"ghost"}},
		}
		_, err := graph.BuildGraph(points, unitDistance)
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "ghost")
		assert.Contains(t, err.Error(), "A")
	})

	t.Run("malformed coordinates rejected", func(t *testing.T) {
		points := graph.PointsData{
			"A": {Coordinates: []float64{0}, Adjacents: []string{}},
		}
		_, err := graph.BuildGraph(points, unitDistance)
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "A")
	})
}

func TestLoadPoints(t *testing.T) {
	t.Run("loads and validates a points file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "points.json")
		contents := `{
			"C-1": {"coordinates": [50.0691, 19.9048], "adjacents": ["p1"]},
			"p1": {"coordinates": [50.0687, 19.9042], "adjacents": ["C-1"]}
		}`
		assert.Nil(t, os.WriteFile(path, []byte(contents), 0644))

		points, err := graph.LoadPoints(path)
		assert.Nil(t, err)
		assert.Len(t, points, 2)
		assert.Equal(t, []string{"p1"}, points["C-1"].Adjacents)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := graph.LoadPoints(filepath.Join(t.TempDir(), "nope.json"))
		assert.NotNil(t, err)
	})
}

func TestBuildingNames(t *testing.T) {
	points := graph.PointsData{
		"B-2":  {Coordinates: []float64{0, 0}},
		"A-0":  {Coordinates: []float64{0, 0}},
		"p12":  {Coordinates: []float64{0, 0}},
		"p3":   {Coordinates: []float64{0, 0}},
		"D-10": {Coordinates: []float64{0, 0}},
	}
	assert.Equal(t, []string{"A-0", "B-2", "D-10"}, points.BuildingNames())
}
