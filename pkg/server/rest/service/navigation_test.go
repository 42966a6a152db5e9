package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/engine/routingalgorithm"
	"agh/navigator/pkg/geo"
	"agh/navigator/pkg/graph"
	"agh/navigator/pkg/kv"
	"agh/navigator/pkg/server"
	"agh/navigator/pkg/server/rest/service"

	"github.com/stretchr/testify/assert"
)

type stubKV struct {
	vertices []kv.CellVertex
	err      error
}

func (s stubKV) GetNearestVerticesFromCoord(lat, lon float64) ([]kv.CellVertex, error) {
	return s.vertices, s.err
}

type stubSpatial struct {
	vertex graph.Vertex
	ok     bool
}

func (s stubSpatial) NearestVertex(lat, lon float64) (graph.Vertex, bool) {
	return s.vertex, s.ok
}

// campus fixture: two buildings joined through one path intersection, plus a
// heavier direct edge and one isolated building.
func campusFixture(t *testing.T) (*graph.CampusGraph, *routingalgorithm.RouteAlgorithm) {
	t.Helper()
	points := graph.PointsData{
		"A-0": {Coordinates: []float64{0, 0}, Adjacents: []string{"p1", "B-1"}},
		"p1":  {Coordinates: []float64{0, 1}, Adjacents: []string{"A-0", "B-1"}},
		"B-1": {Coordinates: []float64{0, 2}, Adjacents: []string{"p1", "A-0"}},
		"C-2": {Coordinates: []float64{5, 5}, Adjacents: []string{}},
	}
	weights := map[string]float64{
		"0,0->0,1": 60,  // A-0 <-> p1
		"0,1->0,2": 60,  // p1 <-> B-1
		"0,0->0,2": 300, // A-0 <-> B-1 direct
	}
	dist := func(a, b datastructure.Coordinate) float64 {
		if w, ok := weights[fmt.Sprintf("%v,%v->%v,%v", a.Lat, a.Lon, b.Lat, b.Lon)]; ok {
			return w
		}
		if w, ok := weights[fmt.Sprintf("%v,%v->%v,%v", b.Lat, b.Lon, a.Lat, a.Lon)]; ok {
			return w
		}
		return 1
	}
	g, err := graph.BuildGraph(points, geo.DistanceFunc(dist))
	assert.Nil(t, err)
	return g, routingalgorithm.NewRouteAlgorithm(g)
}

func errCode(err error) error {
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return nil
	}
	return ierr.Code()
}

func TestShortestPathWalk(t *testing.T) {
	g, rt := campusFixture(t)
	svc := service.NewNavigationService(g, rt, stubKV{}, stubSpatial{})

	t.Run("routes through the path intersection", func(t *testing.T) {
		walk, err := svc.ShortestPathWalk(context.Background(), "A-0", "B-1", "walk")
		assert.Nil(t, err)
		assert.True(t, walk.Found)
		assert.Equal(t, 120, walk.DistMeters)
		// 120m at 2 m/s is exactly one minute
		assert.Equal(t, 1, walk.ETAMinutes)
		assert.Equal(t, "A-0", walk.Start.Name)
		assert.Equal(t, "B-1", walk.Dest.Name)

		// travel order, start first
		assert.Equal(t, []datastructure.Coordinate{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 1},
			{Lat: 0, Lon: 2},
		}, walk.Route)
		assert.NotEmpty(t, walk.Path)
	})

	t.Run("slower profile raises the eta", func(t *testing.T) {
		walk, err := svc.ShortestPathWalk(context.Background(), "A-0", "B-1", "slow")
		assert.Nil(t, err)
		// ceil(120 / 90) minutes
		assert.Equal(t, 2, walk.ETAMinutes)
	})

	t.Run("unknown start point", func(t *testing.T) {
		_, err := svc.ShortestPathWalk(context.Background(), "Z-9", "B-1", "walk")
		assert.NotNil(t, err)
		assert.Equal(t, server.ErrNotFound, errCode(err))
		assert.Contains(t, err.Error(), "Z-9")
	})

	t.Run("unknown speed profile", func(t *testing.T) {
		_, err := svc.ShortestPathWalk(context.Background(), "A-0", "B-1", "sprint")
		assert.NotNil(t, err)
		assert.Equal(t, server.ErrBadParamInput, errCode(err))
	})

	t.Run("unreachable destination is flagged, not errored", func(t *testing.T) {
		walk, err := svc.ShortestPathWalk(context.Background(), "A-0", "C-2", "walk")
		assert.Nil(t, err)
		assert.False(t, walk.Found)
		assert.Empty(t, walk.Route)
	})
}

func TestSnapCoordToVertex(t *testing.T) {
	g, rt := campusFixture(t)

	t.Run("picks the closest kv candidate", func(t *testing.T) {
		aIDx, _ := g.IndexOfVertex("A-0")
		bIDx, _ := g.IndexOfVertex("B-1")
		svc := service.NewNavigationService(g, rt, stubKV{vertices: []kv.CellVertex{
			{Coord: [2]float64{0, 2}, IDx: bIDx, Name: "B-1"},
			{Coord: [2]float64{0, 0}, IDx: aIDx, Name: "A-0"},
		}}, stubSpatial{})

		vertex, err := svc.SnapCoordToVertex(0, 0.1)
		assert.Nil(t, err)
		assert.Equal(t, "A-0", vertex.Name)
	})

	t.Run("falls back to the rtree when kv has nothing", func(t *testing.T) {
		pIDx, _ := g.IndexOfVertex("p1")
		svc := service.NewNavigationService(g, rt,
			stubKV{err: errors.New("empty cell")},
			stubSpatial{vertex: g.GetVertex(pIDx), ok: true})

		vertex, err := svc.SnapCoordToVertex(0, 1.1)
		assert.Nil(t, err)
		assert.Equal(t, "p1", vertex.Name)
	})

	t.Run("nothing anywhere near", func(t *testing.T) {
		svc := service.NewNavigationService(g, rt, stubKV{err: errors.New("empty cell")}, stubSpatial{})
		_, err := svc.SnapCoordToVertex(0, 0)
		assert.NotNil(t, err)
		assert.Equal(t, server.ErrNotFound, errCode(err))
	})
}

func TestManyToManyWalk(t *testing.T) {
	g, rt := campusFixture(t)
	svc := service.NewNavigationService(g, rt, stubKV{}, stubSpatial{})

	t.Run("matrix over sources and targets", func(t *testing.T) {
		results, err := svc.ManyToManyWalk(context.Background(),
			[]string{"A-0", "B-1"}, []string{"B-1", "C-2"}, "walk")
		assert.Nil(t, err)
		assert.Len(t, results, 2)

		fromA := results["A-0"]
		assert.Len(t, fromA, 2)
		assert.Equal(t, "B-1", fromA[0].TargetName)
		assert.Equal(t, 120, fromA[0].DistMeters)
		assert.True(t, fromA[0].Found)
		assert.Equal(t, "C-2", fromA[1].TargetName)
		assert.False(t, fromA[1].Found)
	})

	t.Run("unknown source fails the whole query", func(t *testing.T) {
		_, err := svc.ManyToManyWalk(context.Background(), []string{"Z-9"}, []string{"B-1"}, "walk")
		assert.NotNil(t, err)
		assert.Equal(t, server.ErrNotFound, errCode(err))
	})
}

func TestBuildings(t *testing.T) {
	g, rt := campusFixture(t)
	svc := service.NewNavigationService(g, rt, stubKV{}, stubSpatial{})

	buildings := svc.Buildings()
	names := make([]string, 0, len(buildings))
	for _, b := range buildings {
		names = append(names, b.Name)
	}
	// path intersections (the "p" prefix) are not selectable
	assert.Equal(t, []string{"A-0", "B-1", "C-2"}, names)
}
