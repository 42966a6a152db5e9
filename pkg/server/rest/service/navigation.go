package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"agh/navigator/pkg/concurrent"
	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/engine/routingalgorithm"
	"agh/navigator/pkg/geo"
	"agh/navigator/pkg/graph"
	"agh/navigator/pkg/kv"
	"agh/navigator/pkg/server"
)

type CampusGraph interface {
	IndexOfVertex(name string) (int32, bool)
	GetVertex(idx int32) graph.Vertex
	NumVertices() int
	Vertices() []graph.Vertex
}

type RouteAlgorithm interface {
	ShortestPath(ctx context.Context, fromIDx, toIDx int32) (routingalgorithm.Route, error)
	OneToMany(ctx context.Context, fromIDx int32, targetIDxs []int32) (map[int32]routingalgorithm.Route, error)
}

type KVDB interface {
	GetNearestVerticesFromCoord(lat, lon float64) ([]kv.CellVertex, error)
}

type SpatialIndex interface {
	NearestVertex(lat, lon float64) (graph.Vertex, bool)
}

// WalkingSpeeds m/s per profile, same profiles the campus app always had.
var WalkingSpeeds = map[string]float64{
	"slow": 1.5,
	"walk": 2,
	"fast": 3,
}

type NavigationService struct {
	campus  CampusGraph
	routing RouteAlgorithm
	kv      KVDB
	spatial SpatialIndex
}

func NewNavigationService(campus CampusGraph, routing RouteAlgorithm, kvDB KVDB, spatial SpatialIndex) *NavigationService {
	return &NavigationService{campus: campus, routing: routing, kv: kvDB, spatial: spatial}
}

// WalkRoute one solved pedestrian route. Route is in travel order (start
// first); the engine's raw destination-to-start order is an implementation
// detail that stops at this layer.
type WalkRoute struct {
	Path       string
	Route      []datastructure.Coordinate
	DistMeters int
	ETAMinutes int
	Found      bool
	Start      graph.Vertex
	Dest       graph.Vertex
}

func (uc *NavigationService) ShortestPathWalk(ctx context.Context, startName, destName, speedProfile string) (WalkRoute, error) {
	speed, ok := WalkingSpeeds[speedProfile]
	if !ok {
		return WalkRoute{}, server.WrapErrorf(nil, server.ErrBadParamInput, "unknown walking speed profile %q", speedProfile)
	}

	fromIDx, ok := uc.campus.IndexOfVertex(startName)
	if !ok {
		return WalkRoute{}, server.WrapErrorf(nil, server.ErrNotFound, "start point %q is not on the campus map", startName)
	}
	toIDx, ok := uc.campus.IndexOfVertex(destName)
	if !ok {
		return WalkRoute{}, server.WrapErrorf(nil, server.ErrNotFound, "destination point %q is not on the campus map", destName)
	}

	route, err := uc.routing.ShortestPath(ctx, fromIDx, toIDx)
	if err != nil {
		return WalkRoute{}, server.WrapErrorf(err, server.ErrInternalServerError, "route computation aborted")
	}

	return uc.newWalkRoute(route, fromIDx, toIDx, speed), nil
}

// ShortestPathWalkByCoord snaps both raw coordinates to the nearest campus
// point first, then routes between the snapped points.
func (uc *NavigationService) ShortestPathWalkByCoord(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64, speedProfile string) (WalkRoute, error) {
	speed, ok := WalkingSpeeds[speedProfile]
	if !ok {
		return WalkRoute{}, server.WrapErrorf(nil, server.ErrBadParamInput, "unknown walking speed profile %q", speedProfile)
	}

	fromVertex, err := uc.SnapCoordToVertex(srcLat, srcLon)
	if err != nil {
		return WalkRoute{}, server.WrapErrorf(err, server.ErrNotFound, "the start location is not covered by the campus map")
	}
	toVertex, err := uc.SnapCoordToVertex(dstLat, dstLon)
	if err != nil {
		return WalkRoute{}, server.WrapErrorf(err, server.ErrNotFound, "the destination location is not covered by the campus map")
	}

	route, err := uc.routing.ShortestPath(ctx, fromVertex.IDx, toVertex.IDx)
	if err != nil {
		return WalkRoute{}, server.WrapErrorf(err, server.ErrInternalServerError, "route computation aborted")
	}

	return uc.newWalkRoute(route, fromVertex.IDx, toVertex.IDx, speed), nil
}

// SnapCoordToVertex h3 cell lookup first, rtree as fallback when the cell
// ring around the location holds no campus point.
func (uc *NavigationService) SnapCoordToVertex(lat, lon float64) (graph.Vertex, error) {
	cellVertices, err := uc.kv.GetNearestVerticesFromCoord(lat, lon)
	if err != nil || len(cellVertices) == 0 {
		vertex, ok := uc.spatial.NearestVertex(lat, lon)
		if !ok {
			return graph.Vertex{}, server.WrapErrorf(err, server.ErrNotFound, "no campus point near (%f, %f)", lat, lon)
		}
		return vertex, nil
	}

	wantLoc := geo.NewLocation(lat, lon)
	best := cellVertices[0]
	bestDist := math.Inf(1)
	for _, candidate := range cellVertices {
		candidateLoc := geo.NewLocation(candidate.Coord[0], candidate.Coord[1])
		dist := geo.HaversineDistance(wantLoc, candidateLoc)
		if dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}
	return uc.campus.GetVertex(best.IDx), nil
}

type TargetResult struct {
	TargetName string
	Path       string
	Route      []datastructure.Coordinate
	DistMeters int
	ETAMinutes int
	Found      bool
}

type oneToManyResult struct {
	sourceIDx int32
	routes    map[int32]routingalgorithm.Route
	err       error
}

// ManyToManyWalk routes from every source to every target. One Dijkstra pass
// per source, sources fan out over the worker pool; safe because every pass
// owns its run context.
func (uc *NavigationService) ManyToManyWalk(ctx context.Context, sources, targets []string, speedProfile string) (map[string][]TargetResult, error) {
	speed, ok := WalkingSpeeds[speedProfile]
	if !ok {
		return nil, server.WrapErrorf(nil, server.ErrBadParamInput, "unknown walking speed profile %q", speedProfile)
	}

	sourceIDxs, err := uc.resolveNames(sources)
	if err != nil {
		return nil, err
	}
	targetIDxs, err := uc.resolveNames(targets)
	if err != nil {
		return nil, err
	}

	workers := concurrent.NewWorkerPool[concurrent.OneToManyJobItem, oneToManyResult](4, len(sourceIDxs))
	for _, sourceIDx := range sourceIDxs {
		workers.AddJob(concurrent.OneToManyJobItem{SourceIDx: sourceIDx, TargetIDxs: targetIDxs})
	}
	workers.Close()

	workers.Start(func(job concurrent.OneToManyJobItem) oneToManyResult {
		routes, err := uc.routing.OneToMany(ctx, job.SourceIDx, job.TargetIDxs)
		return oneToManyResult{sourceIDx: job.SourceIDx, routes: routes, err: err}
	})
	workers.Wait()

	results := make(map[string][]TargetResult, len(sourceIDxs))
	for res := range workers.CollectResults() {
		if res.err != nil {
			return nil, server.WrapErrorf(res.err, server.ErrInternalServerError, "route matrix computation aborted")
		}
		sourceName := uc.campus.GetVertex(res.sourceIDx).Name

		targetResults := make([]TargetResult, 0, len(res.routes))
		for toIDx, route := range res.routes {
			walk := uc.newWalkRoute(route, res.sourceIDx, toIDx, speed)
			targetResults = append(targetResults, TargetResult{
				TargetName: uc.campus.GetVertex(toIDx).Name,
				Path:       walk.Path,
				Route:      walk.Route,
				DistMeters: walk.DistMeters,
				ETAMinutes: walk.ETAMinutes,
				Found:      walk.Found,
			})
		}
		sort.Slice(targetResults, func(i, j int) bool {
			return targetResults[i].TargetName < targetResults[j].TargetName
		})
		results[sourceName] = targetResults
	}

	return results, nil
}

type Building struct {
	Name  string
	Coord datastructure.Coordinate
}

// Buildings selectable start/destination points: every vertex except the "p"
// prefixed path intersection helpers, sorted by name.
func (uc *NavigationService) Buildings() []Building {
	buildings := []Building{}
	for _, vertex := range uc.campus.Vertices() {
		if strings.HasPrefix(vertex.Name, "p") {
			continue
		}
		buildings = append(buildings, Building{Name: vertex.Name, Coord: vertex.Coord})
	}
	sort.Slice(buildings, func(i, j int) bool {
		return buildings[i].Name < buildings[j].Name
	})
	return buildings
}

func (uc *NavigationService) resolveNames(names []string) ([]int32, error) {
	idxs := make([]int32, 0, len(names))
	for _, name := range names {
		idx, ok := uc.campus.IndexOfVertex(name)
		if !ok {
			return nil, server.WrapErrorf(nil, server.ErrNotFound, "point %q is not on the campus map", name)
		}
		idxs = append(idxs, idx)
	}
	return idxs, nil
}

func (uc *NavigationService) newWalkRoute(route routingalgorithm.Route, fromIDx, toIDx int32, speed float64) WalkRoute {
	if !route.Found {
		return WalkRoute{
			Found: false,
			Start: uc.campus.GetVertex(fromIDx),
			Dest:  uc.campus.GetVertex(toIDx),
		}
	}

	travelOrder := route.TravelOrder()
	distMeters := route.DistMeters()
	return WalkRoute{
		Path:       datastructure.RenderPath(travelOrder),
		Route:      travelOrder,
		DistMeters: distMeters,
		ETAMinutes: int(math.Ceil(float64(distMeters) / (60 * speed))),
		Found:      true,
		Start:      uc.campus.GetVertex(fromIDx),
		Dest:       uc.campus.GetVertex(toIDx),
	}
}
