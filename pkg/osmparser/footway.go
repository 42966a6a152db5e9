package osmparser

import (
	"context"
	"fmt"
	"os"

	"agh/navigator/pkg/graph"

	"github.com/k0kubun/go-ansi"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/schollz/progressbar/v3"
)

// ways a pedestrian can use
var validFootwayType = map[string]bool{
	"footway":       true,
	"path":          true,
	"pedestrian":    true,
	"steps":         true,
	"living_street": true,
	"residential":   true,
	"service":       true,
	"track":         true,
}

// ParsePedestrianWays extracts the walkable network from an .osm.pbf extract
// and emits it in the points.json contract. Every way node becomes a "p"
// prefixed point (path intersection naming convention), consecutive way nodes
// become mutual adjacents since footpaths are walkable in both directions.
func ParsePedestrianWays(mapFile string) (graph.PointsData, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 3)
	defer scanner.Close()

	nodeMap := make(map[osm.NodeID]*osm.Node)
	ways := []*osm.Way{}

	for scanner.Scan() {
		o := scanner.Object()
		switch o.ObjectID().Type() {
		case osm.TypeNode:
			node := o.(*osm.Node)
			nodeMap[node.ID] = node
		case osm.TypeWay:
			way := o.(*osm.Way)
			if validFootwayType[way.Tags.Find("highway")] {
				ways = append(ways, way)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(ways),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/1][reset] extracting pedestrian ways..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	points := graph.PointsData{}
	for _, way := range ways {
		for i := 0; i < len(way.Nodes)-1; i++ {
			fromID := way.Nodes[i].ID
			toID := way.Nodes[i+1].ID
			fromNode, fromOk := nodeMap[fromID]
			toNode, toOk := nodeMap[toID]
			if !fromOk || !toOk {
				// node outside the extract bounds
				continue
			}

			fromName := pointName(fromID)
			toName := pointName(toID)
			addPoint(points, fromName, fromNode)
			addPoint(points, toName, toNode)
			addAdjacent(points, fromName, toName)
			addAdjacent(points, toName, fromName)
		}
		bar.Add(1)
	}
	fmt.Println("")

	return points, nil
}

func pointName(id osm.NodeID) string {
	return fmt.Sprintf("p%d", id)
}

func addPoint(points graph.PointsData, name string, node *osm.Node) {
	if _, ok := points[name]; !ok {
		points[name] = graph.PointRecord{
			Coordinates: []float64{node.Lat, node.Lon},
		}
	}
}

func addAdjacent(points graph.PointsData, from, to string) {
	record := points[from]
	for _, adj := range record.Adjacents {
		if adj == to {
			return
		}
	}
	record.Adjacents = append(record.Adjacents, to)
	points[from] = record
}
