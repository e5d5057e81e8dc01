package graph

import (
	"container/heap"
	"fmt"
	"sync"

	"netdecay/apperror"
)

// Scratch holds the per-worker buffers Dijkstra needs: dense distance,
// "seen", and "finalized" arrays, each sized to the graph's node count.
// Dijkstra resets only the entries it touched on the previous call (via
// touched), not the whole array; this is what keeps repeated bounded
// searches cheap when only a small fraction of the graph lies within the
// cutoff. A Scratch must not be shared between goroutines; the all-pairs
// driver gives each worker its own.
type Scratch struct {
	dist      []float64
	seen      []bool
	finalized []bool
	touched   []int32
	queue     priorityQueue
}

// NewScratch allocates a Scratch sized for a graph with n nodes.
func NewScratch(n int) *Scratch {
	return &Scratch{
		dist:      make([]float64, n),
		seen:      make([]bool, n),
		finalized: make([]bool, n),
		touched:   make([]int32, 0, 64),
	}
}

// ScratchPool recycles Scratch buffers across repeated bounded Dijkstra
// calls: Acquire returns a Scratch already reset and sized for n nodes,
// Release returns it to the pool for reuse by any later Acquire. This is
// what lets the all-pairs driver avoid one allocation per source node while
// still giving every concurrent worker a private buffer.
type ScratchPool struct {
	n    int
	pool sync.Pool
}

// NewScratchPool creates a ScratchPool whose Scratch values are sized for a
// graph with n nodes.
func NewScratchPool(n int) *ScratchPool {
	sp := &ScratchPool{n: n}
	sp.pool.New = func() any { return NewScratch(n) }
	return sp
}

// Acquire returns a Scratch ready for immediate use.
func (sp *ScratchPool) Acquire() *Scratch {
	return sp.pool.Get().(*Scratch)
}

// Release returns s to the pool. s must not be a buffer sized for a
// different node count than the pool was created with.
func (sp *ScratchPool) Release(s *Scratch) {
	sp.pool.Put(s)
}

// resetTouched clears exactly the entries touched by the previous search,
// leaving the buffers ready for the next source without a full O(n) zeroing
// pass.
func (s *Scratch) resetTouched() {
	for _, idx := range s.touched {
		s.dist[idx] = 0
		s.seen[idx] = false
		s.finalized[idx] = false
	}
	s.touched = s.touched[:0]
	s.queue = s.queue[:0]
}

func (s *Scratch) relax(idx index, dist float64) {
	if !s.seen[idx] {
		s.seen[idx] = true
		s.touched = append(s.touched, int32(idx))
	}
	s.dist[idx] = dist
}

type heapItem struct {
	node index
	dist float64
}

type priorityQueue []heapItem

func (q priorityQueue) Len() int           { return len(q) }
func (q priorityQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q priorityQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)        { *q = append(*q, x.(heapItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Visit is called once per (target index, distance) pair that Dijkstra
// finalizes, in the order nodes are popped from the heap (non-decreasing
// distance). The source itself is visited first, with distance 0. Neither
// idx nor dist may be retained by the callback beyond the call.
type Visit func(idx int, dist float64)

// View is the minimal read-only surface Dijkstra needs from a Graph[T]: the
// CSR arrays, with the external id type parameter erased so Dijkstra (and
// the all-pairs driver in package allpairs, which calls it once per source
// from many goroutines) doesn't need to be generic.
type View struct {
	offsets []int32
	adj     []edge
}

// View returns the index-only CSR surface of g for use with Dijkstra. The
// returned View aliases g's storage and is valid for g's lifetime.
func (g *Graph[T]) View() *View {
	return &View{offsets: g.offsets, adj: g.adj}
}

// Dijkstra runs a cutoff-bounded single-source shortest-path search from
// sourceIdx over g, streaming each finalized (target, distance) pair to
// visit as soon as it is known — this lets callers (the all-pairs
// driver in particular) stream distance triples out without accumulating a
// full per-source map. scratch is reset at the start of the call and left
// reset on return, so a single Scratch can be reused across any number of
// calls as long as they run on one goroutine at a time.
func Dijkstra(g *View, sourceIdx int, cutoff float64, scratch *Scratch, visit Visit) {
	scratch.resetTouched()
	defer scratch.resetTouched()

	src := index(sourceIdx)
	scratch.relax(src, 0)
	heap.Push(&scratch.queue, heapItem{node: src, dist: 0})

	for scratch.queue.Len() > 0 {
		top := heap.Pop(&scratch.queue).(heapItem)
		u := top.node
		if scratch.finalized[u] {
			continue
		}
		if top.dist > scratch.dist[u] {
			continue // stale entry superseded by a better relaxation
		}
		scratch.finalized[u] = true
		visit(int(u), top.dist)

		start, end := g.offsets[u], g.offsets[u+1]
		for k := start; k < end; k++ {
			e := g.adj[k]
			if scratch.finalized[e.to] {
				continue
			}
			nd := top.dist + e.cost
			if nd > cutoff {
				continue
			}
			if !scratch.seen[e.to] || nd < scratch.dist[e.to] {
				scratch.relax(e.to, nd)
				heap.Push(&scratch.queue, heapItem{node: e.to, dist: nd})
			}
		}
	}
}

// ShortestPaths runs a cutoff-bounded Dijkstra from source and returns the
// full target -> distance map. It allocates a fresh Scratch per call;
// callers computing many single-source queries against the same graph (the
// all-pairs driver, in particular) should call Dijkstra directly against a
// reused Scratch instead.
func (g *Graph[T]) ShortestPaths(source T, cutoff float64) (map[T]float64, error) {
	srcIdx, ok := g.toIndex[source]
	if !ok {
		return nil, apperror.UnknownNode(fmt.Sprintf("source node %v not present in graph", source)).WithField("source")
	}

	scratch := NewScratch(len(g.toExternal))
	out := make(map[T]float64)
	Dijkstra(g.View(), int(srcIdx), cutoff, scratch, func(idx int, dist float64) {
		out[g.toExternal[idx]] = dist
	})
	return out, nil
}
