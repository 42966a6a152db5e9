package kv

import (
	"fmt"
	"log"
	"math"

	"agh/navigator/pkg/concurrent"
	"agh/navigator/pkg/graph"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/uber/h3-go/v4"
)

const h3IndexResolution = 11 // campus scale, cells ~25m across

type KVDB struct {
	db *pebble.DB
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db}
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

// CreateVertexKV buckets every graph vertex under its h3 cell and persists
// the buckets, zstd compressed, to pebble. Run once after the graph build.
func (k *KVDB) CreateVertexKV(vertices []graph.Vertex) {
	bar := progressbar.NewOptions(len(vertices),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2][reset] building h3 index for campus points..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	cellBuckets := make(map[string][]CellVertex)
	for _, vertex := range vertices {
		latLon := h3.NewLatLng(vertex.Coord.Lat, vertex.Coord.Lon)
		cell := h3.LatLngToCell(latLon, h3IndexResolution)
		cellBuckets[cell.String()] = append(cellBuckets[cell.String()], CellVertex{
			Coord: [2]float64{vertex.Coord.Lat, vertex.Coord.Lon},
			IDx:   vertex.IDx,
			Name:  vertex.Name,
		})
		bar.Add(1)
	}

	fmt.Println("")
	bar = progressbar.NewOptions(len(cellBuckets),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][2/2][reset] saving h3 indexed points to pebble db..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	workers := concurrent.NewWorkerPool[concurrent.SaveVertexJobItem, interface{}](4, len(cellBuckets))

	for keyStr, valArr := range cellBuckets {
		conVertices := make([]concurrent.VertexCell, len(valArr))
		for j, val := range valArr {
			conVertices[j] = val.toConcurrentVertex()
		}

		workers.AddJob(concurrent.SaveVertexJobItem{KeyStr: keyStr, ValArr: conVertices})
		bar.Add(1)
	}
	workers.Close()

	workers.Start(k.SaveVertices)
	workers.Wait()
}

func (k *KVDB) SaveVertices(item concurrent.SaveVertexJobItem) interface{} {
	key := []byte(item.KeyStr)
	vertices := make([]CellVertex, len(item.ValArr))
	for i, val := range item.ValArr {
		vertices[i] = CellVertex{
			Coord: val.Coord,
			IDx:   val.IDx,
			Name:  val.Name,
		}
	}

	val, err := CompressVertices(vertices)
	if err != nil {
		log.Fatal(err)
	}
	if err := k.db.Set(key, val, pebble.Sync); err != nil {
		log.Fatal(err)
	}
	return nil
}

// GetNearestVerticesFromCoord collects graph vertices around (lat, lon) for
// the snap step. Starts with the home cell plus a ~150m ring, then widens the
// grid disk until something turns up.
func (k *KVDB) GetNearestVerticesFromCoord(lat, lon float64) ([]CellVertex, error) {
	found := []CellVertex{}

	home := h3.NewLatLng(lat, lon)
	cell := h3.LatLngToCell(home, h3IndexResolution)
	val, closer, err := k.db.Get([]byte(cell.String()))
	if err == nil {
		vertices, err := LoadVertices(val)
		closer.Close()
		if err != nil {
			return nil, err
		}
		found = append(found, vertices...)
	}

	cells := kRingIndexesArea(lat, lon, 0.15)
	for _, currCell := range cells {
		if currCell == cell {
			continue
		}
		val, closer, err := k.db.Get([]byte(currCell.String()))
		if closer == nil || err != nil {
			continue
		}

		vertices, err := LoadVertices(val)
		closer.Close()
		if err != nil {
			return nil, err
		}
		found = append(found, vertices...)
	}

	// nothing within the search ring, widen the disk level by level
	for lev := 1; lev <= 10 && len(found) == 0; lev++ {
		cells := h3.GridDisk(cell, lev)
		for _, currCell := range cells {
			if currCell == cell {
				continue
			}
			val, closer, err := k.db.Get([]byte(currCell.String()))
			if closer == nil || err != nil {
				continue
			}

			vertices, err := LoadVertices(val)
			closer.Close()
			if err != nil {
				return nil, err
			}
			found = append(found, vertices...)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("no campus points around location (%f, %f)", lat, lon)
	}

	return found, nil
}

// kRingIndexesArea neighbor cells of (lat, lon) covering searchRadiusKm.
// https://observablehq.com/@nrabinowitz/h3-radius-lookup
func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	home := h3.NewLatLng(lat, lon)
	origin := h3.LatLngToCell(home, h3IndexResolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea
	for diskArea < searchArea {
		radius++
		cellCount := 3*radius*(radius+1) + 1
		diskArea = float64(cellCount) * originArea
	}

	return h3.GridDisk(origin, radius)
}
