// Package reach answers whether the places and things in a map can actually
// be gotten to. It builds a traversability graph over the tiles grid, runs a
// breadth-first search from an origin (normally the first Tool Store), and
// reports the reachable set, BFS distances, isolated floor regions, choke
// points, and the overall accessibility ratio.
//
// Analysis is deterministic: neighbors are always visited in N, E, S, W
// order and choke points come back row-major sorted, so identical input
// always produces an identical Result. Nothing here mutates the Document.
package reach

import (
	"github.com/dekarrin/cavern/internal/dat"
	"github.com/dekarrin/cavern/internal/tileset"
)

// Point is one grid cell, by row and column.
type Point struct {
	Row int
	Col int
}

// Options tunes an analysis run.
type Options struct {
	// Origin overrides the starting cell. When nil, the first Tool Store
	// building's cell is used, or (0,0) if the map has none.
	Origin *Point

	// CanMine makes drillable wall tiles traversable, weighted by their
	// drill cost, modeling a player who tunnels as they go.
	CanMine bool

	// Table is the tile table to use; nil means the built-in default.
	Table *tileset.Table
}

// Result is the outcome of one analysis run. It is a value computed on
// demand and owned by the caller; nothing retains it.
type Result struct {
	// Origin is the cell the search started from.
	Origin Point

	// Reachable holds every cell the search visited, origin included.
	Reachable map[Point]bool

	// Distances maps each reachable cell to its traversal cost from the
	// origin. Without CanMine every step costs 1, so this is the BFS depth.
	Distances map[Point]int

	// IsolatedRegions is the number of connected floor regions that do not
	// include the origin's region.
	IsolatedRegions int

	// ChokePoints holds the reachable cells whose removal would split the
	// reachable area, row-major sorted.
	ChokePoints []Point

	// AccessibilityRatio is reachable floor tiles over total floor tiles,
	// in [0, 1].
	AccessibilityRatio float64
}

// neighborOffsets is the fixed N, E, S, W visit order. Determinism of the
// whole analysis hangs on this order never changing.
var neighborOffsets = [4]Point{
	{Row: -1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
}

// Analyze runs a reachability analysis of the Document's tiles grid from the
// given origin. A missing tiles grid, or an origin outside it, yields a
// degenerate Result with zero reachable tiles rather than an error; callers
// that want the inconsistency reported should validate first.
func Analyze(doc *dat.Document, opts Options) Result {
	tbl := opts.Table
	if tbl == nil {
		tbl = tileset.Default()
	}

	res := Result{
		Reachable: map[Point]bool{},
		Distances: map[Point]int{},
	}

	grid := doc.Tiles
	if grid == nil || grid.RowCount() == 0 {
		return res
	}

	origin := originFor(doc, opts)
	res.Origin = origin

	if _, ok := grid.At(origin.Row, origin.Col); !ok {
		// out-of-bounds origin: degenerate result, zero reachable tiles
		return res
	}

	walk := newWalker(grid, tbl, opts.CanMine)

	if walk.traversable(origin) {
		if opts.CanMine {
			res.Distances = walk.dijkstra(origin)
		} else {
			res.Distances = walk.bfs(origin)
		}
		for p := range res.Distances {
			res.Reachable[p] = true
		}
	}

	res.IsolatedRegions = walk.isolatedRegions(origin)
	res.ChokePoints = walk.chokePoints(origin, res.Reachable)
	res.AccessibilityRatio = walk.accessibility(res.Reachable)

	return res
}

// originFor resolves where the search starts: explicit option, else the
// first Tool Store, else the top-left corner.
func originFor(doc *dat.Document, opts Options) Point {
	if opts.Origin != nil {
		return *opts.Origin
	}
	for _, b := range doc.Buildings {
		if b.TypeName == "BuildingToolStore_C" {
			row, col := b.GridPos()
			return Point{Row: row, Col: col}
		}
	}
	return Point{}
}

// walker holds the grid-and-table context every traversal step needs.
type walker struct {
	grid    *dat.Grid
	tbl     *tileset.Table
	canMine bool
}

func newWalker(grid *dat.Grid, tbl *tileset.Table, canMine bool) *walker {
	return &walker{grid: grid, tbl: tbl, canMine: canMine}
}

// floor reports whether the cell is a floor-type tile, the kind that counts
// toward regions and the accessibility ratio.
func (w *walker) floor(p Point) bool {
	code, ok := w.grid.At(p.Row, p.Col)
	if !ok {
		return false
	}
	t, ok := w.tbl.Get(code)
	return ok && t.Walkable()
}

// traversable reports whether the search may enter the cell.
func (w *walker) traversable(p Point) bool {
	code, ok := w.grid.At(p.Row, p.Col)
	if !ok {
		return false
	}
	t, ok := w.tbl.Get(code)
	if !ok {
		return false
	}
	if t.Walkable() {
		return true
	}
	return w.canMine && t.Drillable()
}

// stepCost is the cost of entering the cell. Walkable cells cost 1; drillable
// cells cost 1 plus their drill cost.
func (w *walker) stepCost(p Point) int {
	code, _ := w.grid.At(p.Row, p.Col)
	t, _ := w.tbl.Get(code)
	if t.Walkable() {
		return 1
	}
	return 1 + t.DrillCost
}

// bfs runs an iterative breadth-first search with an explicit queue; large
// open maps would blow the call stack under a recursive flood fill.
func (w *walker) bfs(origin Point) map[Point]int {
	dist := map[Point]int{origin: 0}
	queue := []Point{origin}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, off := range neighborOffsets {
			next := Point{Row: cur.Row + off.Row, Col: cur.Col + off.Col}
			if _, seen := dist[next]; seen {
				continue
			}
			if !w.traversable(next) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}

	return dist
}

// dijkstra is the weighted variant used in can-mine mode. Ties are broken by
// row-major position so the search order, and with it the result, is fully
// deterministic.
func (w *walker) dijkstra(origin Point) map[Point]int {
	dist := map[Point]int{origin: 0}
	done := map[Point]bool{}
	pq := &pointHeap{{p: origin, dist: 0}}

	for pq.Len() > 0 {
		cur := pq.pop()
		if done[cur.p] {
			continue
		}
		done[cur.p] = true

		for _, off := range neighborOffsets {
			next := Point{Row: cur.p.Row + off.Row, Col: cur.p.Col + off.Col}
			if !w.traversable(next) {
				continue
			}

			alt := dist[cur.p] + w.stepCost(next)
			if d, seen := dist[next]; !seen || alt < d {
				dist[next] = alt
				pq.push(pointDist{p: next, dist: alt})
			}
		}
	}

	return dist
}

// isolatedRegions counts the connected floor components that do not contain
// the origin. Components are found by iterative flood fill over floor tiles,
// walking cells in row-major order so the count is deterministic.
func (w *walker) isolatedRegions(origin Point) int {
	// the origin's own component, by pure walking; mining does not merge
	// regions for this count
	originRegion := map[Point]bool{}
	if w.floor(origin) {
		w.floodFloor(origin, originRegion)
	}

	seen := map[Point]bool{}
	count := 0

	for r := 0; r < w.grid.RowCount(); r++ {
		for c := range w.grid.Rows[r] {
			p := Point{Row: r, Col: c}
			if seen[p] || originRegion[p] || !w.floor(p) {
				continue
			}
			w.floodFloor(p, seen)
			count++
		}
	}

	return count
}

// floodFloor marks every floor tile 4-connected to start into visited, using
// an explicit stack.
func (w *walker) floodFloor(start Point, visited map[Point]bool) {
	stack := []Point{start}
	visited[start] = true

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, off := range neighborOffsets {
			next := Point{Row: cur.Row + off.Row, Col: cur.Col + off.Col}
			if visited[next] || !w.floor(next) {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}
}

// accessibility is reachable floor tiles over all floor tiles.
func (w *walker) accessibility(reachable map[Point]bool) float64 {
	total := 0
	hit := 0
	for r := 0; r < w.grid.RowCount(); r++ {
		for c := range w.grid.Rows[r] {
			p := Point{Row: r, Col: c}
			if !w.floor(p) {
				continue
			}
			total++
			if reachable[p] {
				hit++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}
