package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"agh/navigator/pkg/osmparser"
)

var (
	mapFile = flag.String("f", "campus.osm.pbf", "openstreetmap pbf extract of the campus area")
	outFile = flag.String("o", "points.json", "output points file for the navigator server")
)

func main() {
	flag.Parse()

	points, err := osmparser.ParsePedestrianWays(*mapFile)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(*outFile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(points); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %d points to %s\n", len(points), *outFile)
}
