package routingalgorithm

import (
	"container/heap"
	"context"
	"math"

	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/graph"
	"agh/navigator/pkg/util"
)

type RouteAlgorithm struct {
	g *graph.CampusGraph
}

func NewRouteAlgorithm(g *graph.CampusGraph) *RouteAlgorithm {
	return &RouteAlgorithm{g: g}
}

// runContext per-query search state, indexed by vertex arena index. A fresh
// one is allocated for every calculate call, so the shared CampusGraph is
// never mutated and concurrent queries need no locking.
type runContext struct {
	minDist []float64
	visited []bool
	pred    []int32
}

func newRunContext(numVertices int) *runContext {
	rc := &runContext{
		minDist: make([]float64, numVertices),
		visited: make([]bool, numVertices),
		pred:    make([]int32, numVertices),
	}
	for i := range rc.minDist {
		rc.minDist[i] = math.Inf(1)
		rc.pred[i] = -1
	}
	return rc
}

// Route result of one shortest path query. Coords is the raw predecessor walk
// order, destination first and start last. Use TravelOrder for the order a
// pedestrian walks it.
type Route struct {
	Coords []datastructure.Coordinate
	Dist   float64
	Found  bool
}

func (r Route) TravelOrder() []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, len(r.Coords))
	copy(coords, r.Coords)
	util.ReverseG(coords)
	return coords
}

// DistMeters total distance truncated (not rounded) to whole meters.
// -1 when the destination is unreachable.
func (r Route) DistMeters() int {
	if !r.Found {
		return -1
	}
	return int(r.Dist)
}

// ShortestPath single pair query. Requires non-negative edge weights, which
// holds for any sane distance provider; negative weights are not validated.
func (rt *RouteAlgorithm) ShortestPath(ctx context.Context, fromIDx, toIDx int32) (Route, error) {
	rc, err := rt.calculate(ctx, fromIDx)
	if err != nil {
		return Route{}, err
	}
	return rt.reconstruct(rc, toIDx), nil
}

// OneToMany runs the label-setting pass once from fromIDx and reconstructs a
// route for every target.
func (rt *RouteAlgorithm) OneToMany(ctx context.Context, fromIDx int32, targetIDxs []int32) (map[int32]Route, error) {
	rc, err := rt.calculate(ctx, fromIDx)
	if err != nil {
		return nil, err
	}
	routes := make(map[int32]Route, len(targetIDxs))
	for _, toIDx := range targetIDxs {
		routes[toIDx] = rt.reconstruct(rc, toIDx)
	}
	return routes, nil
}

// calculate is the label-setting Dijkstra loop. The frontier is a binary heap
// with lazy deletion: a vertex may sit in the heap more than once and the
// visited check discards entries superseded by a better distance. O((V+E)logV).
func (rt *RouteAlgorithm) calculate(ctx context.Context, fromIDx int32) (*runContext, error) {
	rc := newRunContext(rt.g.NumVertices())
	rc.minDist[fromIDx] = 0

	frontier := &priorityQueueDijkstra{}
	heap.Init(frontier)
	heap.Push(frontier, &dijkstraNode{
		rank:      0,
		vertexIDx: fromIDx,
		name:      rt.g.GetVertex(fromIDx).Name,
	})

	for frontier.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		actual := heap.Pop(frontier).(*dijkstraNode)
		if rc.visited[actual.vertexIDx] {
			continue
		}

		for _, edge := range rt.g.GetOutEdges(actual.vertexIDx) {
			toIDx := edge.ToVertexIDx
			newDist := rc.minDist[actual.vertexIDx] + edge.Weight
			if newDist < rc.minDist[toIDx] {
				rc.minDist[toIDx] = newDist
				rc.pred[toIDx] = actual.vertexIDx
				heap.Push(frontier, &dijkstraNode{
					rank:      newDist,
					vertexIDx: toIDx,
					name:      rt.g.GetVertex(toIDx).Name,
				})
			}
		}

		rc.visited[actual.vertexIDx] = true
	}

	return rc, nil
}

// reconstruct walks predecessor links from the target back to the start.
// For an unreachable target the walk stops immediately and the route is the
// degenerate single coordinate of the target itself, Found = false.
func (rt *RouteAlgorithm) reconstruct(rc *runContext, toIDx int32) Route {
	coords := []datastructure.Coordinate{}
	actualIDx := toIDx
	for actualIDx != -1 {
		coords = append(coords, rt.g.GetVertex(actualIDx).Coord)
		actualIDx = rc.pred[actualIDx]
	}

	return Route{
		Coords: coords,
		Dist:   rc.minDist[toIDx],
		Found:  !math.IsInf(rc.minDist[toIDx], 1),
	}
}
