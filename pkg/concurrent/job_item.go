package concurrent

// VertexCell one graph vertex bucketed under an h3 cell.
type VertexCell struct {
	Coord [2]float64 // [lat, lon]
	IDx   int32
	Name  string
}

type SaveVertexJobItem struct {
	KeyStr string
	ValArr []VertexCell
}

// OneToManyJobItem one source of a route matrix query.
type OneToManyJobItem struct {
	SourceIDx  int32
	TargetIDxs []int32
}

type JobI interface {
	OneToManyJobItem | SaveVertexJobItem
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
