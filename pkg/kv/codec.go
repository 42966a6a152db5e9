package kv

import (
	"agh/navigator/pkg/concurrent"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// CellVertex is what the snap query needs back from the db: the vertex arena
// index plus its coordinate.
type CellVertex struct {
	Coord [2]float64 // [lat, lon]
	IDx   int32
	Name  string
}

func (c *CellVertex) toConcurrentVertex() concurrent.VertexCell {
	return concurrent.VertexCell{
		Coord: c.Coord,
		IDx:   c.IDx,
		Name:  c.Name,
	}
}

func Encode(vertices []CellVertex) []byte {
	encoded, _ := binary.Marshal(vertices)
	return encoded
}

func Decode(bb []byte) ([]CellVertex, error) {
	var vertices []CellVertex
	if err := binary.Unmarshal(bb, &vertices); err != nil {
		return nil, err
	}
	return vertices, nil
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}
	return bb, nil
}

func CompressVertices(vertices []CellVertex) ([]byte, error) {
	return Compress(Encode(vertices))
}

func LoadVertices(bb []byte) ([]CellVertex, error) {
	decompressed, err := Decompress(bb)
	if err != nil {
		return nil, err
	}
	return Decode(decompressed)
}
