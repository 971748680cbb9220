package server

import (
	"container/heap"
	"math"
)

type navNeighbor struct {
	col      int
	row      int
	cost     float64
	diagonal bool
}

var navNeighborOffsets = [...]navNeighbor{
	{col: 0, row: -1, cost: 1, diagonal: false},
	{col: 1, row: 0, cost: 1, diagonal: false},
	{col: 0, row: 1, cost: 1, diagonal: false},
	{col: -1, row: 0, cost: 1, diagonal: false},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

// navGrid is the derived walkability grid, built once per map.
type navGrid struct {
	cols, rows int
	cellSize   float64
	walkable   []bool
	width      float64
	height     float64
	walls      []Wall
}

func newNavGrid(m *MapDef) *navGrid {
	cols := int(math.Ceil(m.Width / navCellSize))
	rows := int(math.Ceil(m.Height / navCellSize))
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	grid := &navGrid{
		cols:     cols,
		rows:     rows,
		cellSize: navCellSize,
		walkable: make([]bool, cols*rows),
		width:    m.Width,
		height:   m.Height,
		walls:    m.Walls,
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cellX := float64(col) * grid.cellSize
			cellY := float64(row) * grid.cellSize
			blocked := false
			for _, wall := range m.Walls {
				if rectsOverlap(cellX, cellY, grid.cellSize, grid.cellSize, wall) {
					blocked = true
					break
				}
			}
			if !blocked {
				grid.walkable[row*cols+col] = true
			}
		}
	}

	return grid
}

func (g *navGrid) inBounds(col, row int) bool {
	return g != nil && col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

func (g *navGrid) index(col, row int) int {
	return row*g.cols + col
}

func (g *navGrid) isWalkable(col, row int) bool {
	if !g.inBounds(col, row) {
		return false
	}
	return g.walkable[g.index(col, row)]
}

func (g *navGrid) worldPos(col, row int) vec2 {
	return vec2{
		X: (float64(col) + 0.5) * g.cellSize,
		Y: (float64(row) + 0.5) * g.cellSize,
	}
}

func (g *navGrid) locate(p vec2) (int, int, bool) {
	if g == nil || g.cols == 0 || g.rows == 0 {
		return 0, 0, false
	}
	if p.X < 0 || p.Y < 0 || p.X >= g.width || p.Y >= g.height {
		return 0, 0, false
	}
	col := int(p.X / g.cellSize)
	row := int(p.Y / g.cellSize)
	if !g.inBounds(col, row) {
		return 0, 0, false
	}
	return col, row, true
}

// canTraverseDiagonal forbids cutting a corner past a blocked cardinal cell.
func (g *navGrid) canTraverseDiagonal(current navPoint, delta navNeighbor) bool {
	if !delta.diagonal {
		return true
	}
	if !g.isWalkable(current.col+delta.col, current.row) {
		return false
	}
	if !g.isWalkable(current.col, current.row+delta.row) {
		return false
	}
	return true
}

type navPoint struct {
	col int
	row int
}

func (g *navGrid) heuristic(a, b navPoint) float64 {
	dx := math.Abs(float64(a.col - b.col))
	dy := math.Abs(float64(a.row - b.row))
	return dx + dy
}

type pathNode struct {
	point  navPoint
	g      float64
	f      float64
	seq    uint64
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

// Less orders by f-score; equal scores fall back to insertion order so
// replays expand nodes identically.
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func (g *navGrid) astar(start, goal navPoint) ([]navPoint, bool) {
	open := &pathQueue{}
	heap.Init(open)
	var seq uint64
	startNode := &pathNode{point: start, g: 0, f: g.heuristic(start, goal)}
	heap.Push(open, startNode)
	gScore := map[int]float64{g.index(start.col, start.row): 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		currIdx := g.index(current.point.col, current.point.row)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.point == goal {
			return reconstructPath(current), true
		}

		for _, delta := range navNeighborOffsets {
			if delta.diagonal && !g.canTraverseDiagonal(current.point, delta) {
				continue
			}
			nc := current.point.col + delta.col
			nr := current.point.row + delta.row
			if !g.isWalkable(nc, nr) {
				continue
			}
			idx := g.index(nc, nr)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + delta.cost
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			seq++
			heap.Push(open, &pathNode{
				point:  navPoint{col: nc, row: nr},
				g:      tentativeG,
				f:      tentativeG + g.heuristic(navPoint{col: nc, row: nr}, goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstructPath(end *pathNode) []navPoint {
	if end == nil {
		return nil
	}
	path := make([]navPoint, 0)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.point)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// findPath returns world-space waypoints from start to target, with the ends
// snapped to the exact queried positions rather than cell centers. An empty
// slice means no path: off-grid or blocked endpoints are degraded results,
// not errors, and callers fall back to direct movement.
func (g *navGrid) findPath(start, target vec2) []vec2 {
	if g == nil {
		return nil
	}
	startCol, startRow, ok := g.locate(start)
	if !ok || !g.isWalkable(startCol, startRow) {
		return nil
	}
	goalCol, goalRow, ok := g.locate(target)
	if !ok || !g.isWalkable(goalCol, goalRow) {
		return nil
	}

	nodes, ok := g.astar(navPoint{col: startCol, row: startRow}, navPoint{col: goalCol, row: goalRow})
	if !ok || len(nodes) == 0 {
		return nil
	}

	path := make([]vec2, 0, len(nodes))
	for _, node := range nodes {
		path = append(path, g.worldPos(node.col, node.row))
	}
	path[0] = start
	path[len(path)-1] = target
	return path
}

// smoothPath collapses a waypoint list by greedily jumping to the farthest
// later waypoint with clear line of sight. Paths of length two or less are
// returned untouched.
func (g *navGrid) smoothPath(path []vec2) []vec2 {
	if len(path) <= 2 {
		return path
	}
	smoothed := make([]vec2, 0, len(path))
	smoothed = append(smoothed, path[0])
	current := 0
	for current < len(path)-1 {
		next := current + 1
		for candidate := len(path) - 1; candidate > next; candidate-- {
			if segmentClearOfWalls(path[current], path[candidate], g.walls) {
				next = candidate
				break
			}
		}
		smoothed = append(smoothed, path[next])
		current = next
	}
	return smoothed
}
