package reach

import (
	"container/heap"
	"sort"
)

// file choke.go finds choke points: reachable tiles whose removal would
// split the reachable area into disconnected pieces. These are exactly the
// articulation points of the reachable subgraph, found with an iterative
// Tarjan lowlink pass so that large maps cannot overflow the call stack.

// chokePoints returns the articulation points of the reachable component
// containing origin, restricted to tiles with at least two traversable
// neighbors, sorted row-major.
func (w *walker) chokePoints(origin Point, reachable map[Point]bool) []Point {
	if !reachable[origin] {
		return nil
	}

	disc := map[Point]int{}
	low := map[Point]int{}
	parent := map[Point]Point{}
	isArt := map[Point]bool{}

	type frame struct {
		p  Point
		ni int
	}

	timer := 0
	disc[origin] = timer
	low[origin] = timer
	timer++
	rootChildren := 0

	stack := []frame{{p: origin}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.ni < len(neighborOffsets) {
			off := neighborOffsets[f.ni]
			f.ni++

			nb := Point{Row: f.p.Row + off.Row, Col: f.p.Col + off.Col}
			if !reachable[nb] {
				continue
			}

			if _, seen := disc[nb]; !seen {
				parent[nb] = f.p
				disc[nb] = timer
				low[nb] = timer
				timer++
				if f.p == origin {
					rootChildren++
				}
				stack = append(stack, frame{p: nb})
				continue
			}

			// back edge, unless it goes straight back to the parent
			if pp, hasPar := parent[f.p]; !hasPar || nb != pp {
				if disc[nb] < low[f.p] {
					low[f.p] = disc[nb]
				}
			}
			continue
		}

		// all neighbors handled; fold this node's lowlink into its parent
		done := *f
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			continue
		}

		par := &stack[len(stack)-1]
		if low[done.p] < low[par.p] {
			low[par.p] = low[done.p]
		}
		if par.p != origin && low[done.p] >= disc[par.p] {
			isArt[par.p] = true
		}
	}

	if rootChildren >= 2 {
		isArt[origin] = true
	}

	var out []Point
	for p := range isArt {
		if w.traversableNeighbors(p) < 2 {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})

	return out
}

func (w *walker) traversableNeighbors(p Point) int {
	n := 0
	for _, off := range neighborOffsets {
		if w.traversable(Point{Row: p.Row + off.Row, Col: p.Col + off.Col}) {
			n++
		}
	}
	return n
}

// pointDist is one priority-queue entry for the weighted search.
type pointDist struct {
	p    Point
	dist int
}

// pointHeap orders by distance, then row, then column. The position
// tie-break keeps the weighted search fully deterministic.
type pointHeap []pointDist

func (h pointHeap) Len() int { return len(h) }

func (h pointHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	if h[i].p.Row != h[j].p.Row {
		return h[i].p.Row < h[j].p.Row
	}
	return h[i].p.Col < h[j].p.Col
}

func (h pointHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pointHeap) Push(x any) {
	*h = append(*h, x.(pointDist))
}

func (h *pointHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (h *pointHeap) push(pd pointDist) {
	heap.Push(h, pd)
}

func (h *pointHeap) pop() pointDist {
	return heap.Pop(h).(pointDist)
}
