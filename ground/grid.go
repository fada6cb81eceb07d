package ground

import (
	"math"

	"github.com/akmonengine/carforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_CELL_SIZE = 4.0
	DEFAULT_NUM_CELLS = 1024

	// bodies or queries spanning more cells than this bypass the grid
	maxSpannedCells = 4096
)

// cellKey is the integer coordinate of a grid cell
type cellKey struct {
	X, Y, Z int
}

// grid is a uniform spatial hash of body indices.
// Distinct cells may share a bucket, so a query returns candidates, never a final answer.
type grid struct {
	cellSize float64
	cells    [][]int
	cellMask int
}

func newGrid(cellSize float64, numCells int) *grid {
	if cellSize <= 0 {
		cellSize = DEFAULT_CELL_SIZE
	}
	numCells = nextPowerOfTwo(numCells)

	cells := make([][]int, numCells)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &grid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// insert adds index to every cell the bounds touch.
// It reports false, inserting nothing, when the bounds are too large for the grid.
func (g *grid) insert(index int, aabb actor.AABB) bool {
	minCell, maxCell, ok := g.span(aabb)
	if !ok {
		return false
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := g.hashCell(cellKey{x, y, z})
				g.cells[cellIdx] = append(g.cells[cellIdx], index)
			}
		}
	}

	return true
}

func (g *grid) clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// query appends to dst the indices stored in the cells the bounds touch, possibly with duplicates.
// It reports false when the bounds are too large to be answered by the grid.
func (g *grid) query(aabb actor.AABB, dst []int) ([]int, bool) {
	minCell, maxCell, ok := g.span(aabb)
	if !ok {
		return dst, false
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				dst = append(dst, g.cells[g.hashCell(cellKey{x, y, z})]...)
			}
		}
	}

	return dst, true
}

func (g *grid) span(aabb actor.AABB) (cellKey, cellKey, bool) {
	for i := 0; i < 3; i++ {
		if math.IsInf(aabb.Min[i], 0) || math.IsInf(aabb.Max[i], 0) ||
			(aabb.Max[i]-aabb.Min[i])/g.cellSize > maxSpannedCells {
			return cellKey{}, cellKey{}, false
		}
	}

	minCell := g.worldToCell(aabb.Min)
	maxCell := g.worldToCell(aabb.Max)
	count := (maxCell.X - minCell.X + 1) * (maxCell.Y - minCell.Y + 1) * (maxCell.Z - minCell.Z + 1)
	if count > maxSpannedCells {
		return cellKey{}, cellKey{}, false
	}

	return minCell, maxCell, true
}

func (g *grid) worldToCell(pos mgl64.Vec3) cellKey {
	return cellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
		Z: int(math.Floor(pos.Z() / g.cellSize)),
	}
}

func (g *grid) hashCell(key cellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & g.cellMask
}
